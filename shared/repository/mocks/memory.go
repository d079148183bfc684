package mocks

import (
	"cmp"
	"context"
	"dogwalking/shared/constant"
	"dogwalking/shared/dto"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Table is an in-memory stand-in for Repository[T]. Filters are evaluated
// against the db tags of T so services can be exercised without Postgres.
type Table[T any] struct {
	mu   sync.Mutex
	pk   string
	rows []T
}

func NewTable[T any](pk string) *Table[T] {
	return &Table[T]{pk: pk}
}

// UniqueViolation mimics the error Postgres returns for a duplicate key.
func UniqueViolation(constraint string) error {
	return &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: constraint, Message: "duplicate key value violates unique constraint"}
}

// ForeignKeyViolation mimics the error Postgres returns for a dangling reference.
func ForeignKeyViolation(constraint string) error {
	return &pq.Error{Code: constant.PqErrorCodeFkViolation, Constraint: constraint, Message: "insert or update violates foreign key constraint"}
}

func (t *Table[T]) Insert(_ context.Context, model T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := column(reflect.ValueOf(model), t.pk)
	for _, row := range t.rows {
		if equal(column(reflect.ValueOf(row), t.pk), key) {
			return UniqueViolation(t.pk)
		}
	}

	t.rows = append(t.rows, model)

	return nil
}

// Put inserts or replaces a row by primary key.
func (t *Table[T]) Put(model T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := column(reflect.ValueOf(model), t.pk)
	for i, row := range t.rows {
		if equal(column(reflect.ValueOf(row), t.pk), key) {
			t.rows[i] = model

			return
		}
	}

	t.rows = append(t.rows, model)
}

func (t *Table[T]) Rows() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Clone(t.rows)
}

// Select returns every row for which keep reports true.
func (t *Table[T]) Select(keep func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	var res []T

	for _, row := range t.rows {
		if keep(row) {
			res = append(res, row)
		}
	}

	return res
}

func (t *Table[T]) Get(_ context.Context, filter dto.FilterGroup, _ ...string) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if match(reflect.ValueOf(row), filter) {
			return row, nil
		}
	}

	var zero T

	return zero, nil
}

func (t *Table[T]) GetForUpdate(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return t.Get(ctx, filter, columns...)
}

func (t *Table[T]) GetAll(_ context.Context, params dto.QueryParams, filter dto.FilterGroup, _ ...string) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := []T{}

	for _, row := range t.rows {
		if match(reflect.ValueOf(row), filter) {
			res = append(res, row)
		}
	}

	if params.SortBy != "" {
		slices.SortStableFunc(res, func(a, b T) int {
			c, _ := compare(column(reflect.ValueOf(a), params.SortBy), column(reflect.ValueOf(b), params.SortBy))
			if strings.EqualFold(params.SortDir, dto.SortDirDesc) {
				return -c
			}

			return c
		})
	}

	if params.Limit > 0 {
		offset := 0
		if params.Page > 0 {
			offset = (params.Page - 1) * params.Limit
		}

		if offset >= len(res) {
			return []T{}, nil
		}

		res = res[offset:min(offset+params.Limit, len(res))]
	}

	return res, nil
}

func (t *Table[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	rows, err := t.GetAll(ctx, dto.QueryParams{}, filter)

	return len(rows), err
}

func (t *Table[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	count, err := t.Count(ctx, filter)

	return count > 0, err
}

func (t *Table[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, err := t.UpdateAffected(ctx, mod, filter)

	return err
}

func (t *Table[T]) UpdateAffected(_ context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var affected int64

	for i := range t.rows {
		row := reflect.ValueOf(&t.rows[i]).Elem()
		if !match(row, filter) {
			continue
		}

		for name, value := range mod {
			if err := assign(row, name, value); err != nil {
				return affected, err
			}
		}

		affected++
	}

	return affected, nil
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	for i := range v.NumField() {
		field := v.Type().Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if found, ok := fieldByTag(v.Field(i), name); ok {
				return found, true
			}

			continue
		}

		if strings.Split(field.Tag.Get("db"), ",")[0] == name {
			return v.Field(i), true
		}
	}

	return reflect.Value{}, false
}

// column reads a field by db tag, dereferencing pointers. Nil and unknown yield nil.
func column(v reflect.Value, name string) any {
	field, ok := fieldByTag(v, name)
	if !ok {
		return nil
	}

	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return nil
		}

		field = field.Elem()
	}

	return field.Interface()
}

func assign(row reflect.Value, name string, value any) error {
	field, ok := fieldByTag(row, name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}

	if value == nil {
		field.SetZero()

		return nil
	}

	val := reflect.ValueOf(value)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			field.SetZero()

			return nil
		}

		val = val.Elem()
	}

	target := field.Type()
	if target.Kind() == reflect.Pointer {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(val.Convert(target.Elem()))
		field.Set(ptr)

		return nil
	}

	field.Set(val.Convert(target))

	return nil
}

func match(row reflect.Value, group dto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	or := strings.EqualFold(group.Operator, dto.FilterGroupOperatorOr)

	for _, f := range group.Filters {
		var ok bool

		switch filter := f.(type) {
		case dto.Filter:
			ok = matchFilter(row, filter)
		case dto.FilterGroup:
			ok = match(row, filter)
		default:
			continue
		}

		if or && ok {
			return true
		}

		if !or && !ok {
			return false
		}
	}

	return !or
}

func matchFilter(row reflect.Value, f dto.Filter) bool {
	got := column(row, f.Field)

	switch f.Operator {
	case dto.FilterIsNull:
		return got == nil
	case dto.FilterIsNotNull:
		return got != nil
	case dto.FilterOperatorIn:
		values := reflect.ValueOf(f.Value)
		if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
			return false
		}

		for i := range values.Len() {
			if equal(got, values.Index(i).Interface()) {
				return true
			}
		}

		return false
	case dto.FilterOperatorLike:
		s, _ := got.(string)

		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(f.Value)))
	}

	if got == nil {
		return false
	}

	c, ok := compare(got, f.Value)
	if !ok {
		return false
	}

	switch f.Operator {
	case dto.FilterOperatorEq:
		return c == 0
	case dto.FilterOperatorNotEq:
		return c != 0
	case dto.FilterOperatorLessEq:
		return c <= 0
	case dto.FilterOperatorGreaterEq:
		return c >= 0
	default:
		return false
	}
}

func equal(a, b any) bool {
	c, ok := compare(a, b)

	return ok && c == 0
}

func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, a == nil && b == nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if bv.Kind() == reflect.Pointer {
		if bv.IsNil() {
			return 0, false
		}

		bv = bv.Elem()
	}

	if at, ok := a.(time.Time); ok {
		bt, ok := bv.Interface().(time.Time)
		if !ok {
			return 0, false
		}

		return at.Compare(bt), true
	}

	switch {
	case isInt(av) && isInt(bv):
		return cmp.Compare(av.Int(), bv.Int()), true
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return cmp.Compare(av.String(), bv.String()), true
	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		if av.Bool() == bv.Bool() {
			return 0, true
		}

		if av.Bool() {
			return 1, true
		}

		return -1, true
	default:
		return 0, false
	}
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}
