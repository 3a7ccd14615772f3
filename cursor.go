package gokeyset

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

var _encoder = base64.RawURLEncoding

// Cursor is the boundary between two batches: the order key value of the
// last yielded record and the operator that selects the records after it.
//
// The comparison is strict. If the order key is not unique, records that
// share the boundary value with the last yielded record are not part of the
// next batch.
type Cursor struct {
	Column   string
	Value    any
	Operator Operator
}

// tCursorToken is the JSON form of a Cursor. Kind records the type of a
// value JSON would flatten into a string.
type tCursorToken struct {
	Column   string   `json:"c"`
	Value    any      `json:"v"`
	Operator Operator `json:"o"`
	Kind     string   `json:"k,omitempty"`
}

// NewCursor returns the cursor positioned right after value in the given order.
func NewCursor(orderBy OrderBy, value any) Cursor {
	return Cursor{
		Column:   orderBy.Column,
		Value:    value,
		Operator: orderBy.Direction.ForOperator(),
	}
}

// DecodeCursor parses a token produced by Cursor.String. An empty token
// yields a nil cursor, meaning the start of the collection.
func DecodeCursor(b64String string) (*Cursor, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded cursor: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()

	var tok tCursorToken
	if err = decoder.Decode(&tok); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded cursor: %w", err)
	}

	value, err := restoreValue(tok.Value, tok.Kind)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor value: %w", err)
	}

	return &Cursor{
		Column:   tok.Column,
		Value:    value,
		Operator: tok.Operator,
	}, nil
}

// String - implements fmt.Stringer. Returns an opaque token that can be
// stored and handed back through WithStartAfter to resume an iteration.
func (c Cursor) String() string {
	jTok, err := json.Marshal(tCursorToken{
		Column:   c.Column,
		Value:    c.Value,
		Operator: c.Operator,
		Kind:     valueKind(c.Value),
	})
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	return _encoder.EncodeToString(jTok)
}

// Apply adds the boundary filter to a gorm query.
func (c Cursor) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(c.toConjunct().toGORMExpression())
}

func (c Cursor) toConjunct() tConjunct {
	return tConjunct(c)
}

func (c Cursor) validate(orderBy OrderBy) error {
	if c.Column != orderBy.Column {
		return fmt.Errorf("unexpected cursor column '%s'", c.Column)
	}

	if !c.Operator.Valid() {
		return fmt.Errorf("invalid cursor operator '%s'", c.Operator)
	} else if c.Operator.ForDirection() != orderBy.Direction {
		return fmt.Errorf("unexpected cursor operator '%s'", c.Operator)
	}

	if c.Value == nil {
		return fmt.Errorf("cursor has no value")
	}

	return nil
}

var _ fmt.Stringer = Cursor{}
