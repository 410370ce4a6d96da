package gen

import (
	"strings"
)

// columnType is the Sequelize data type and TypeScript type of a column.
type columnType struct {
	DataType string
	TSType   string
}

// sqlType splits a raw SQL type such as "character varying(255)" into its
// lowercase name and the raw argument list inside the parentheses.
func sqlType(raw string) (name, args string) {
	raw = strings.TrimSpace(raw)
	name = strings.ToLower(raw)
	if i := strings.IndexByte(name, '('); i >= 0 {
		var rest string
		if j := strings.LastIndexByte(name, ')'); j > i {
			args = strings.TrimSpace(raw[i+1 : j])
			rest = name[j+1:]
		}
		name = name[:i] + rest
	}
	name = strings.TrimSpace(strings.TrimSuffix(name, " unsigned"))
	return name, args
}

// mapType maps a raw SQL column type to its Sequelize and TypeScript types.
func mapType(raw string) columnType {
	name, args := sqlType(raw)
	withArgs := func(dt string) string {
		if args == "" {
			return "DataTypes." + dt
		}
		return "DataTypes." + dt + "(" + args + ")"
	}
	switch {
	case name == "boolean" || name == "bool" || (name == "tinyint" && args == "1") || (name == "bit" && (args == "" || args == "1")):
		return columnType{"DataTypes.BOOLEAN", "boolean"}
	case name == "bigint" || name == "int8" || name == "bigserial":
		return columnType{"DataTypes.BIGINT", "number"}
	case name == "smallint" || name == "int2" || name == "smallserial":
		return columnType{"DataTypes.SMALLINT", "number"}
	case name == "tinyint":
		return columnType{"DataTypes.TINYINT", "number"}
	case name == "mediumint":
		return columnType{"DataTypes.MEDIUMINT", "number"}
	case name == "integer" || name == "int" || name == "int4" || name == "serial":
		return columnType{"DataTypes.INTEGER", "number"}
	case name == "real" || name == "float4":
		return columnType{"DataTypes.REAL", "number"}
	case name == "float":
		return columnType{"DataTypes.FLOAT", "number"}
	case strings.HasPrefix(name, "double") || name == "float8":
		return columnType{"DataTypes.DOUBLE", "number"}
	case name == "decimal" || name == "numeric" || name == "money":
		return columnType{withArgs("DECIMAL"), "number"}
	case name == "uuid" || name == "uniqueidentifier":
		return columnType{"DataTypes.UUID", "string"}
	case name == "json":
		return columnType{"DataTypes.JSON", "object"}
	case name == "jsonb":
		return columnType{"DataTypes.JSONB", "object"}
	case name == "date":
		return columnType{"DataTypes.DATEONLY", "string"}
	case strings.HasPrefix(name, "timestamp") || name == "datetime" || name == "datetime2" || name == "timestamptz":
		return columnType{"DataTypes.DATE", "Date"}
	case strings.HasPrefix(name, "time"):
		return columnType{"DataTypes.TIME", "string"}
	case name == "char" || name == "character" || name == "nchar":
		return columnType{withArgs("CHAR"), "string"}
	case strings.Contains(name, "varchar") || strings.HasPrefix(name, "character varying") || name == "varchar2":
		return columnType{withArgs("STRING"), "string"}
	case strings.HasSuffix(name, "text") || name == "clob":
		return columnType{"DataTypes.TEXT", "string"}
	case strings.HasSuffix(name, "blob") || name == "bytea" || name == "binary" || name == "varbinary":
		return columnType{"DataTypes.BLOB", "Buffer"}
	case name == "enum":
		return columnType{withArgs("ENUM"), enumTSType(args)}
	default:
		return columnType{"DataTypes.STRING", "string"}
	}
}

// enumTSType renders a union of the quoted enum values.
func enumTSType(args string) string {
	var vals []string
	for _, v := range strings.Split(args, ",") {
		v = strings.Trim(strings.TrimSpace(v), `'"`)
		if v != "" {
			vals = append(vals, `"`+v+`"`)
		}
	}
	if len(vals) == 0 {
		return "string"
	}
	return strings.Join(vals, " | ")
}
