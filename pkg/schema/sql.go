package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// PrimaryKey returns the column name of the model's primary key,
// or an empty string if the model has none.
func PrimaryKey(model DDLGenerator) string {
	t := modelType(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if isPrimaryKey(field) {
			return field.Tag.Get("db")
		}
	}
	return ""
}

// InsertSQL returns an INSERT statement for the row and its arguments.
// A primary key with zero value is left out, so SQLite assigns it.
func InsertSQL(row DDLGenerator) (string, []any) {
	v := reflect.ValueOf(row)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var cols, marks []string
	var args []any
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		col := field.Tag.Get("db")
		if col == "" {
			continue
		}
		val := v.Field(i)
		if isPrimaryKey(field) && val.IsZero() {
			continue
		}
		cols = append(cols, col)
		marks = append(marks, "?")
		args = append(args, val.Interface())
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		row.TableName(), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return q, args
}

// SelectIDSQL returns a query for the primary key of rows matching
// all the given columns.
func SelectIDSQL(model DDLGenerator, keyCols ...string) string {
	conds := make([]string, len(keyCols))
	for i, v := range keyCols {
		conds[i] = v + " = ?"
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		PrimaryKey(model), model.TableName(), strings.Join(conds, " AND "))
}

func isPrimaryKey(field reflect.StructField) bool {
	return strings.Contains(field.Tag.Get("ddl"), "PRIMARY KEY")
}
