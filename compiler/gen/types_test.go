package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLType(t *testing.T) {
	tests := []struct {
		raw  string
		name string
		args string
	}{
		{"varchar(255)", "varchar", "255"},
		{"character varying(64)", "character varying", "64"},
		{"INT(11) UNSIGNED", "int", "11"},
		{"decimal(10, 2)", "decimal", "10, 2"},
		{"timestamp(6) with time zone", "timestamp with time zone", "6"},
		{"enum('a','B')", "enum", "'a','B'"},
		{"text", "text", ""},
		{"broken(", "broken", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name, args := sqlType(tt.raw)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestMapType(t *testing.T) {
	tests := []struct {
		raw string
		dt  string
		ts  string
	}{
		{"boolean", "DataTypes.BOOLEAN", "boolean"},
		{"tinyint(1)", "DataTypes.BOOLEAN", "boolean"},
		{"tinyint(4)", "DataTypes.TINYINT", "number"},
		{"int(11)", "DataTypes.INTEGER", "number"},
		{"integer", "DataTypes.INTEGER", "number"},
		{"bigint unsigned", "DataTypes.BIGINT", "number"},
		{"smallint", "DataTypes.SMALLINT", "number"},
		{"double precision", "DataTypes.DOUBLE", "number"},
		{"real", "DataTypes.REAL", "number"},
		{"numeric(10,2)", "DataTypes.DECIMAL(10,2)", "number"},
		{"uuid", "DataTypes.UUID", "string"},
		{"jsonb", "DataTypes.JSONB", "object"},
		{"date", "DataTypes.DATEONLY", "string"},
		{"timestamp with time zone", "DataTypes.DATE", "Date"},
		{"datetime", "DataTypes.DATE", "Date"},
		{"time without time zone", "DataTypes.TIME", "string"},
		{"char(2)", "DataTypes.CHAR(2)", "string"},
		{"character varying(64)", "DataTypes.STRING(64)", "string"},
		{"varchar", "DataTypes.STRING", "string"},
		{"longtext", "DataTypes.TEXT", "string"},
		{"bytea", "DataTypes.BLOB", "Buffer"},
		{"enum('draft','published')", "DataTypes.ENUM('draft','published')", `"draft" | "published"`},
		{"geometry", "DataTypes.STRING", "string"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := mapType(tt.raw)
			assert.Equal(t, tt.dt, got.DataType)
			assert.Equal(t, tt.ts, got.TSType)
		})
	}
}
