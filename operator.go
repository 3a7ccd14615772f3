package gokeyset

import "fmt"

// Operator defines the comparison operator of a batch boundary filter.
type Operator string

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

func (o Operator) ForDirection() Direction {
	switch o {
	case OperatorGT:
		return DirectionASC
	case OperatorLT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to direction", o))
	}
}

const (
	// OperatorGT continues an ascending iteration: the next batch starts
	// strictly after the last yielded key.
	OperatorGT Operator = ">"
	// OperatorLT continues a descending iteration.
	OperatorLT Operator = "<"
)
