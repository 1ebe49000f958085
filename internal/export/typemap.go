package export

import "strings"

// Kind is the abstract column kind the pipeline operates on. Every native
// type maps to exactly one Kind; the mapping is total so that any column a
// driver can describe is exportable.
type Kind uint8

const (
	Text Kind = iota
	Numeric
	Date
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "NUMERIC"
	case Date:
		return "DATE"
	}
	return "TEXT"
}

// nativeKinds maps upper-cased driver type names onto kinds. Names missing
// here fall through to the affinity heuristics below, then to Text.
var nativeKinds = map[string]Kind{
	// integer family
	"INT": Numeric, "INTEGER": Numeric, "TINYINT": Numeric, "SMALLINT": Numeric,
	"MEDIUMINT": Numeric, "BIGINT": Numeric, "INT2": Numeric, "INT4": Numeric,
	"INT8": Numeric, "SERIAL": Numeric, "BIGSERIAL": Numeric, "YEAR": Numeric,
	"UNSIGNED BIG INT": Numeric, "BIT": Numeric, "BOOL": Numeric, "BOOLEAN": Numeric,
	// exact and floating decimals
	"NUMERIC": Numeric, "DECIMAL": Numeric, "NUMBER": Numeric, "MONEY": Numeric,
	"SMALLMONEY": Numeric, "REAL": Numeric, "FLOAT": Numeric, "FLOAT4": Numeric,
	"FLOAT8": Numeric, "DOUBLE": Numeric, "DOUBLE PRECISION": Numeric,
	// date/time family
	"DATE": Date, "DATETIME": Date, "DATETIME2": Date, "SMALLDATETIME": Date,
	"DATETIMEOFFSET": Date, "TIMESTAMP": Date, "TIMESTAMPTZ": Date,
	"TIME": Date, "TIMETZ": Date,
}

// MapType reduces a driver-reported type name to a Kind. It is a total
// function: character, binary, and anything unrecognized become Text.
// Length qualifiers like VARCHAR(20) or NUMERIC(10,2) are ignored.
func MapType(databaseTypeName string) Kind {
	name := strings.ToUpper(strings.TrimSpace(databaseTypeName))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if k, ok := nativeKinds[name]; ok {
		return k
	}
	// SQLite-style affinity for declared types not in the table, e.g.
	// "UNSIGNED INT" or "FLOATING POINT".
	switch {
	case strings.Contains(name, "INT"):
		return Numeric
	case strings.Contains(name, "CHAR"), strings.Contains(name, "CLOB"),
		strings.Contains(name, "TEXT"):
		return Text
	case strings.Contains(name, "REAL"), strings.Contains(name, "FLOA"),
		strings.Contains(name, "DOUB"), strings.Contains(name, "DEC"),
		strings.Contains(name, "NUM"):
		return Numeric
	case strings.Contains(name, "DATE"), strings.Contains(name, "TIME"):
		return Date
	}
	return Text
}
