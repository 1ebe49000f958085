// Package config defines the canonical, serializable configuration model for
// export jobs. It is intentionally small and explicit so job files can be
// loaded from disk and passed through the program without extra glue.
//
// A job file names a database source, a registry of directory aliases, and
// one or more exports. JSON is the native format; files ending in .yaml or
// .yml are accepted too.
//
// Example (trimmed):
//
//	{
//	  "job": "nightly",
//	  "source":  { "kind": "sqlite", "dsn": "file:warehouse.db?mode=ro" },
//	  "aliases": { "OUT": "/var/exports" },
//	  "exports": [
//	    { "query": "select id as id, name as name from t",
//	      "output_file": "t.csv", "dir_alias": "OUT" }
//	  ]
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is the top-level object decoded from a job file.
type Job struct {
	// Name identifies the job; it labels log lines and metrics.
	Name string `json:"job" yaml:"job"`

	// Source selects the database the exports read from.
	Source Source `json:"source" yaml:"source"`

	// Aliases maps directory alias names to directory paths. Every export's
	// dir_alias must resolve here.
	Aliases map[string]string `json:"aliases" yaml:"aliases"`

	// Exports lists the exports to run, in declaration order.
	Exports []Export `json:"exports" yaml:"exports"`

	// Runtime controls cross-export execution.
	Runtime Runtime `json:"runtime" yaml:"runtime"`
}

// Source identifies the database backend and its connection string.
type Source struct {
	// Kind selects the source backend: "postgres", "mysql", "mssql", "sqlite".
	Kind string `json:"kind" yaml:"kind"`

	// DSN is passed to the backend's driver unchanged.
	DSN string `json:"dsn" yaml:"dsn"`
}

// Export configures one query-to-file export.
type Export struct {
	// Query is the select to export. Every select-list expression must carry
	// an explicit alias.
	Query string `json:"query" yaml:"query"`

	// OutputFile is the bare output file name; DirAlias names the directory
	// via the aliases registry.
	OutputFile string `json:"output_file" yaml:"output_file"`
	DirAlias   string `json:"dir_alias" yaml:"dir_alias"`

	// DateFormat is an Oracle-style mask for DATE columns; empty applies
	// "DD-MON-YYYY HH24:MI:SS". The mask is caller-trusted and unsanitized.
	DateFormat string `json:"date_format" yaml:"date_format"`

	// WriteMode is "overwrite" (default) or "append".
	WriteMode string `json:"write_mode" yaml:"write_mode"`

	// BatchSize caps rows resident per column; 0 means 1000.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Delimiter is the single-character field separator; empty means ",".
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// Encoding optionally transcodes output, e.g. "latin1"; empty is UTF-8.
	Encoding string `json:"encoding" yaml:"encoding"`

	// Debug writes the synthesized program to output_file + ".sql" before
	// any row is fetched.
	Debug bool `json:"debug" yaml:"debug"`
}

// Runtime controls how many exports may run at once. Each individual export
// is always single-threaded; Parallel only spans independent exports.
type Runtime struct {
	Parallel int `json:"parallel" yaml:"parallel"`
}

// Load reads and decodes a job file. The format follows the file extension:
// .yaml/.yml decode as YAML, everything else as JSON.
func Load(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("read job file: %w", err)
	}
	var job Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &job); err != nil {
			return Job{}, fmt.Errorf("decode yaml job file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &job); err != nil {
			return Job{}, fmt.Errorf("decode json job file: %w", err)
		}
	}
	return job, nil
}
