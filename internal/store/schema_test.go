package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

func TestStatementRendering(t *testing.T) {
	desc := types.Descriptor{Table: "items", Fields: []string{"id", "name", "cost"}, PrimaryKey: "id"}

	tests := []struct {
		name    string
		dialect Dialect
		create  string
		insert  string
		find    string
		update  string
		remove  string
	}{
		{
			name:    "sqlite",
			dialect: SQLite,
			create:  "CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY, name TEXT, cost TEXT)",
			insert:  "INSERT INTO items (id, name, cost) VALUES (?, ?, ?)",
			find:    "SELECT id, name, cost FROM items WHERE id = ?",
			update:  "UPDATE items SET name = ?, cost = ? WHERE id = ?",
			remove:  "DELETE FROM items WHERE id = ?",
		},
		{
			name:    "postgres",
			dialect: Postgres,
			create:  "CREATE TABLE IF NOT EXISTS items (id BIGSERIAL PRIMARY KEY, name TEXT, cost TEXT)",
			insert:  "INSERT INTO items (id, name, cost) VALUES ($1, $2, $3) RETURNING id",
			find:    "SELECT id, name, cost FROM items WHERE id = $1",
			update:  "UPDATE items SET name = $1, cost = $2 WHERE id = $3",
			remove:  "DELETE FROM items WHERE id = $1",
		},
		{
			name:    "mysql",
			dialect: MySQL,
			create:  "CREATE TABLE IF NOT EXISTS items (id BIGINT AUTO_INCREMENT PRIMARY KEY, name TEXT, cost TEXT)",
			insert:  "INSERT INTO items (id, name, cost) VALUES (?, ?, ?)",
			find:    "SELECT id, name, cost FROM items WHERE id = ?",
			update:  "UPDATE items SET name = ?, cost = ? WHERE id = ?",
			remove:  "DELETE FROM items WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.create, createTableSQL(tt.dialect, desc))
			assert.Equal(t, tt.insert, insertSQL(tt.dialect, desc, desc.Fields))
			assert.Equal(t, tt.find, findSQL(tt.dialect, desc))
			assert.Equal(t, tt.update, updateSQL(tt.dialect, desc))
			assert.Equal(t, tt.remove, deleteSQL(tt.dialect, desc))
		})
	}
}

func TestInsertWithoutKeyColumn(t *testing.T) {
	desc := types.Descriptor{Table: "items", Fields: []string{"id", "name"}, PrimaryKey: "id"}
	assert.Equal(t, "INSERT INTO items (name) VALUES (?)", insertSQL(SQLite, desc, desc.NonKeyFields()))
	assert.Equal(t, "INSERT INTO items (name) VALUES ($1) RETURNING id", insertSQL(Postgres, desc, desc.NonKeyFields()))
}

func TestInsertWithNoColumns(t *testing.T) {
	desc := types.Descriptor{Table: "serials", Fields: []string{"id"}, PrimaryKey: "id"}
	assert.Equal(t, "INSERT INTO serials DEFAULT VALUES", insertSQL(SQLite, desc, nil))
	assert.Equal(t, "INSERT INTO serials DEFAULT VALUES RETURNING id", insertSQL(Postgres, desc, nil))
	assert.Equal(t, "INSERT INTO serials () VALUES ()", insertSQL(MySQL, desc, nil))
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{types.DriverSQLite, types.DriverPostgres, types.DriverMySQL} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
	_, err := DialectFor("oracle")
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
}
