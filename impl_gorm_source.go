package gokeyset

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GORMSource iterates over the records of a gorm query. The query may carry
// conditions, joins and a custom Select; its ordering and limit are replaced
// batch by batch.
type GORMSource[T any] struct {
	origin   *gorm.DB
	selected map[string]struct{}

	once   sync.Once
	schema *schema.Schema
	err    error
}

// NewGORMSource wraps db. The query is not modified: every batch is built on
// a copy.
func NewGORMSource[T any](db *gorm.DB) *GORMSource[T] {
	return &GORMSource[T]{
		origin:   db.Session(&gorm.Session{}),
		selected: projectedColumns(db.Statement),
	}
}

// projectedColumns collects the projection of stmt, whether it was set with
// plain column names or with a SELECT expression.
func projectedColumns(stmt *gorm.Statement) map[string]struct{} {
	selects := append([]string(nil), stmt.Selects...)

	if c, ok := stmt.Clauses["SELECT"]; ok {
		switch expr := c.Expression.(type) {
		case clause.Select:
			for _, column := range expr.Columns {
				name := column.Name
				if column.Alias != "" {
					name = column.Alias
				}
				selects = append(selects, name)
			}
		case clause.Expr:
			selects = append(selects, expr.SQL)
		case clause.NamedExpr:
			selects = append(selects, expr.SQL)
		}
	}

	return selectedColumns(selects)
}

// selectedColumns returns the unqualified names of an explicit projection,
// or nil when every column of the model is selected.
func selectedColumns(selects []string) map[string]struct{} {
	if len(selects) == 0 {
		return nil
	}

	ret := make(map[string]struct{}, len(selects))
	for _, selected := range selects {
		for _, part := range strings.Split(selected, ",") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}

			// "expr AS alias" exposes the alias only.
			name := fields[len(fields)-1]
			if name == "*" || strings.HasSuffix(name, ".*") {
				return nil
			}

			ret[strings.ToLower(unqualified(name))] = struct{}{}
		}
	}

	return ret
}

func (s *GORMSource[T]) parse() (*schema.Schema, error) {
	s.once.Do(func() {
		s.schema, s.err = schema.Parse(new(T), &sync.Map{}, s.origin.NamingStrategy)
		if s.err != nil {
			s.err = fmt.Errorf("cannot parse model schema: %w", s.err)
		}
	})

	return s.schema, s.err
}

// PrimaryKey - implements Source. Returns the prioritized primary key of T.
func (s *GORMSource[T]) PrimaryKey() (string, error) {
	sch, err := s.parse()
	if err != nil {
		return "", err
	}

	if sch.PrioritizedPrimaryField == nil {
		return "", ErrNoOrderKey
	}

	return sch.PrioritizedPrimaryField.DBName, nil
}

// Accessor - implements Source. The value is read through the schema field
// of T, resolved once here.
//
// A column is reported absent when it is left out of the query projection
// or when its field is a nil pointer. Zero values, a zero primary key
// included, are values.
func (s *GORMSource[T]) Accessor(column string) (Accessor[T], error) {
	sch, err := s.parse()
	if err != nil {
		return nil, err
	}

	name := unqualified(column)
	field := sch.LookUpField(name)
	if field == nil {
		return nil, fmt.Errorf("%w '%s' in model %s", ErrUnknownColumn, column, sch.Name)
	}

	if s.selected != nil {
		if _, ok := s.selected[strings.ToLower(field.DBName)]; !ok {
			return func(T) (any, bool) { return nil, false }, nil
		}
	}

	isPointer := field.FieldType.Kind() == reflect.Ptr

	return func(record T) (any, bool) {
		value, zero := field.ValueOf(context.Background(), reflect.ValueOf(record))
		if zero && isPointer {
			return nil, false
		}

		if isPointer {
			value = reflect.Indirect(reflect.ValueOf(value)).Interface()
		}

		return value, true
	}, nil
}

// Fetch - implements Source.
func (s *GORMSource[T]) Fetch(ctx context.Context, req PageRequest) ([]T, error) {
	var records []T

	err := req.Apply(s.origin.WithContext(ctx)).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Scope - implements Source. Returns the originating query with a
// "primary key IN (ids)" condition.
func (s *GORMSource[T]) Scope(ids []any) *gorm.DB {
	pk, err := s.PrimaryKey()
	if err != nil {
		db := s.origin.Session(&gorm.Session{})
		_ = db.AddError(err)

		return db
	}

	db := s.origin
	if db.Statement.Model == nil && db.Statement.Table == "" {
		db = db.Model(new(T))
	}

	return db.Where(clause.IN{
		Column: clause.Column{Table: clause.CurrentTable, Name: pk},
		Values: ids,
	})
}

var _ Source[struct{}] = (*GORMSource[struct{}])(nil)
