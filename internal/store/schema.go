package store

import (
	"strings"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Statement rendering. Identifiers come only from a validated
// types.Descriptor; values are always placeholders.

// createTableSQL declares the key as an integer primary key and every other
// field as text. Non-key attributes are read back through coercion.
func createTableSQL(d Dialect, desc types.Descriptor) string {
	cols := make([]string, len(desc.Fields))
	for i, f := range desc.Fields {
		if f == desc.PrimaryKey {
			cols[i] = d.KeyColumn(f)
		} else {
			cols[i] = d.TextColumn(f)
		}
	}
	return "CREATE TABLE IF NOT EXISTS " + desc.Table + " (" + strings.Join(cols, ", ") + ")"
}

func dropTableSQL(desc types.Descriptor) string {
	return "DROP TABLE IF EXISTS " + desc.Table
}

// insertSQL lists the given columns; the key is left out when the engine
// assigns it. With no columns every value comes from the column defaults.
func insertSQL(d Dialect, desc types.Descriptor, cols []string) string {
	var sql string
	switch {
	case len(cols) > 0:
		sql = "INSERT INTO " + desc.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
			placeholders(d, 1, len(cols)) + ")"
	case d.Name() == types.DriverMySQL:
		sql = "INSERT INTO " + desc.Table + " () VALUES ()"
	default:
		sql = "INSERT INTO " + desc.Table + " DEFAULT VALUES"
	}
	if d.ReturningKey() {
		sql += " RETURNING " + desc.PrimaryKey
	}
	return sql
}

func selectSQL(desc types.Descriptor) string {
	return "SELECT " + strings.Join(desc.Fields, ", ") + " FROM " + desc.Table
}

func findSQL(d Dialect, desc types.Descriptor) string {
	return selectSQL(desc) + " WHERE " + desc.PrimaryKey + " = " + d.Placeholder(1)
}

// updateSQL sets every non-key field in declared order; the key is the last
// bound parameter.
func updateSQL(d Dialect, desc types.Descriptor) string {
	fields := desc.NonKeyFields()
	sets := make([]string, len(fields))
	for i, f := range fields {
		sets[i] = f + " = " + d.Placeholder(i+1)
	}
	return "UPDATE " + desc.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + desc.PrimaryKey + " = " + d.Placeholder(len(fields)+1)
}

func deleteSQL(d Dialect, desc types.Descriptor) string {
	return "DELETE FROM " + desc.Table + " WHERE " + desc.PrimaryKey + " = " + d.Placeholder(1)
}

func countSQL(desc types.Descriptor) string {
	return "SELECT COUNT(*) FROM " + desc.Table
}

func placeholders(d Dialect, from, n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.Placeholder(from + i)
	}
	return strings.Join(marks, ", ")
}
