package gokeyset

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Direction defines the sort direction of the iterated collection.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

type (
	// OrderBy is the order key of an iteration. The same column sorts every
	// batch and bounds the next one.
	OrderBy struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if o.Column == "" {
		return ErrNoOrderKey
	}

	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	return nil
}

// ToSQL converts OrderBy to "<order_column> <order_direction>".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderBy.ToSQL())
func (o OrderBy) ToSQL() string {
	return fmt.Sprintf("%s %s", o.Column, o.Direction)
}

// Apply orders a gorm query by the key, replacing any ordering the query
// already had.
func (o OrderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{
		Column:  clause.Column{Name: o.ToSQL(), Raw: true},
		Reorder: true,
	})
}

// ParseOrder builds OrderBy from a string in the format "column [asc|desc]".
// The direction defaults to ASC. When columnMapping is not nil, the column
// is treated as an alias and resolved through it; an unknown alias yields
// an error naming the closest known one.
func ParseOrder(stringOrdering string, columnMapping ColumnMapping) (OrderBy, error) {
	cutStringOrdering := strings.Fields(stringOrdering)
	if len(cutStringOrdering) == 0 || len(cutStringOrdering) > 2 {
		return OrderBy{}, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
	}

	direction := DirectionASC
	if len(cutStringOrdering) == 2 {
		direction = Direction(strings.ToUpper(cutStringOrdering[1]))
	}

	columnName := cutStringOrdering[0]
	if columnMapping != nil {
		columnAlias := columnName
		columnName = columnMapping[columnAlias]
		if columnName == "" {
			return OrderBy{}, fmt.Errorf(
				"invalid column alias. closest: '%s'",
				closestAlias(columnAlias, lo.Keys(columnMapping)),
			)
		}
	}

	ret := OrderBy{
		Column:    columnName,
		Direction: direction,
	}

	return ret, ret.validate()
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		// Ties go to the lexicographically smaller alias so that the hint
		// does not depend on map iteration order.
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

// unqualified strips a table qualifier and identifier quotes from a column
// name: `"users"."id"` becomes id.
func unqualified(column string) string {
	if idx := strings.LastIndexByte(column, '.'); idx != -1 {
		column = column[idx+1:]
	}

	return strings.Trim(column, "`'\"")
}
