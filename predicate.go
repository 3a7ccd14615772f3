package gokeyset

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm/clause"
)

// tConjunct is a single filtering condition Operator(Column, Value).
type tConjunct struct {
	Column   string
	Value    any
	Operator Operator
}

// toGORMExpression converts a conjunct of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c tConjunct) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a conjunct to "Column Operator ?" with a
// corresponding value.
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c tConjunct) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

const _valueKindTime = "time"

func valueKind(v any) string {
	switch v.(type) {
	case time.Time, *time.Time:
		return _valueKindTime
	default:
		return ""
	}
}

// restoreValue gives a decoded token value back the type JSON dropped.
// Numbers become int64, uint64 or float64, in that order of preference.
// Strings are restored to time.Time only when the token says so.
func restoreValue(v any, kind string) (any, error) {
	switch kind {
	case "":
	case _valueKindTime:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("time value is not a string: %v", v)
		}

		var ts time.Time
		if err := ts.UnmarshalText([]byte(str)); err != nil {
			return nil, err
		}

		return ts, nil
	default:
		return nil, fmt.Errorf("unknown value kind '%s'", kind)
	}

	number, ok := v.(json.Number)
	if !ok {
		return v, nil
	}

	if i, err := number.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(number.String(), 10, 64); err == nil {
		return u, nil
	}
	if f, err := number.Float64(); err == nil {
		return f, nil
	}

	return number.String(), nil
}
