// Package export implements the query-to-flat-file engine: it introspects an
// arbitrary query's column set, synthesizes a typed fetch-and-write pipeline
// from that metadata, and executes the pipeline in batches of bounded size.
//
// The flow is Describe -> Synthesize -> (Materialize when debugging) ->
// Execute. Synthesis is a pure function of the spec and the column set, so
// the rendered debug artifact is a byte-faithful preview of what executes.
package export

import (
	"qexport/internal/datefmt"
	"qexport/internal/fsys"
)

// DefaultBatchSize bounds resident rows per column when the caller does not
// choose a batch size.
const DefaultBatchSize = 1000

// Spec is the caller-owned description of one export. It is immutable for
// the duration of the call; defaults are applied on a copy.
type Spec struct {
	// Query is the arbitrary select to export. Every select-list expression
	// must carry an explicit alias; an expression without one yields an
	// unusable column name and is rejected as caller error.
	Query string

	// OutputFile is the bare artifact name; DirAlias names the directory it
	// lands in via the fsys alias registry.
	OutputFile string
	DirAlias   string

	// DateFormat is an Oracle-style mask applied to DATE columns. It is
	// caller-trusted input and is not sanitized. Empty means datefmt.Default.
	DateFormat string

	// WriteMode is overwrite or append; empty means overwrite.
	WriteMode fsys.Mode

	// BatchSize caps rows resident per column; 0 means DefaultBatchSize.
	BatchSize int

	// Delimiter joins fields; empty means comma. Values are written verbatim,
	// so a delimiter occurring inside a value is not escaped.
	Delimiter string

	// Encoding optionally transcodes output (e.g. "latin1"); empty is UTF-8.
	Encoding string

	// Debug, when set, writes the rendered pipeline to OutputFile+".sql"
	// before any row is fetched.
	Debug bool
}

// withDefaults returns the spec with the documented defaults filled in.
func (s Spec) withDefaults() Spec {
	if s.DateFormat == "" {
		s.DateFormat = datefmt.Default
	}
	if s.WriteMode == "" {
		s.WriteMode = fsys.ModeOverwrite
	}
	if s.BatchSize == 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.Delimiter == "" {
		s.Delimiter = ","
	}
	return s
}

// Column describes one result column: ordinal position (1-based), the name
// reported by the driver (the alias), and its abstract kind. Built once per
// export from a single introspection pass.
type Column struct {
	Pos  int
	Name string
	Kind Kind
}
