package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

type csv_field struct {
	index  int
	column int
	name   string
	kind   reflect.Kind
}

// ReadCSV decodes the rows of a delimited text stream into values of T.
//
// Columns are matched by header name against the `csv` struct tags of T.
// Rows with a wrong field count and empty cells of non-string columns yield
// an error for that row. The header is read eagerly so that a missing or
// unreadable header is reported before iteration starts.
func ReadCSV[T any](r io.Reader, delimiter rune) (func(yield func(T, error) bool), error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header")
		}
		return nil, fmt.Errorf("csv: failed to read header: %w", err)
	}
	name_column_mapping := NewDict[string, int](len(header))
	for i, name := range header {
		name_column_mapping[strings.TrimSpace(name)] = i
	}

	var val T
	typ := reflect.TypeOf(val)
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("csv: %v is not a struct type", typ)
	}
	fields := NewList[csv_field](typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("csv")
		if tag == "" || !name_column_mapping.ContainsKey(tag) {
			continue
		}
		column := name_column_mapping[tag]
		switch field.Type.Kind() {
		case reflect.Bool:
			fields.Add(csv_field{i, column, tag, reflect.Bool})
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fields.Add(csv_field{i, column, tag, reflect.Int})
		case reflect.Float32, reflect.Float64:
			fields.Add(csv_field{i, column, tag, reflect.Float64})
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fields.Add(csv_field{i, column, tag, reflect.Uint})
		case reflect.String:
			fields.Add(csv_field{i, column, tag, reflect.String})
		}
	}

	iter := func(yield func(T, error) bool) {
		line := 1
		for {
			record, err := reader.Read()
			line += 1
			if err == io.EOF {
				return
			}
			if err != nil {
				var t T
				yield(t, fmt.Errorf("csv: line %d: %w", line, err))
				return
			}
			if len(record) != len(header) {
				var zero T
				if !yield(zero, fmt.Errorf("csv: line %d: expected %d fields, got %d", line, len(header), len(record))) {
					return
				}
				continue
			}
			t := reflect.New(typ).Elem()
			var row_err error
			for _, field := range fields {
				value := strings.TrimSpace(record[field.column])
				if value == "" {
					if field.kind != reflect.String {
						row_err = multierr.Append(row_err, fmt.Errorf("column %q is empty", field.name))
					}
					continue
				}
				f := t.Field(field.index)
				switch field.kind {
				case reflect.Bool:
					b, err := strconv.ParseBool(value)
					row_err = multierr.Append(row_err, err)
					f.SetBool(b)
				case reflect.Int:
					num, err := strconv.ParseInt(value, 10, 64)
					row_err = multierr.Append(row_err, err)
					f.SetInt(num)
				case reflect.Uint:
					num, err := strconv.ParseUint(value, 10, 64)
					row_err = multierr.Append(row_err, err)
					f.SetUint(num)
				case reflect.Float64:
					num, err := strconv.ParseFloat(value, 64)
					row_err = multierr.Append(row_err, err)
					f.SetFloat(num)
				case reflect.String:
					f.SetString(value)
				}
			}
			if row_err != nil {
				var zero T
				if !yield(zero, fmt.Errorf("csv: line %d: %w", line, row_err)) {
					return
				}
				continue
			}
			if !yield(t.Interface().(T), nil) {
				return
			}
		}
	}
	return iter, nil
}
