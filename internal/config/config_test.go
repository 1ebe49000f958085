package config

import (
	"os"
	"path/filepath"
	"testing"
)

// These tests decode from literal job files to keep the JSON/YAML schema and
// the Go struct graph honest with each other.

const jobJSON = `{
  "job": "nightly",
  "source": { "kind": "sqlite", "dsn": "file:warehouse.db?mode=ro" },
  "aliases": { "OUT": "/var/exports" },
  "exports": [
    {
      "query": "select id as id, name as name from items",
      "output_file": "items.csv",
      "dir_alias": "OUT",
      "date_format": "YYYY-MM-DD",
      "write_mode": "append",
      "batch_size": 500,
      "delimiter": ";",
      "encoding": "latin1",
      "debug": true
    }
  ],
  "runtime": { "parallel": 2 }
}`

const jobYAML = `job: nightly
source:
  kind: sqlite
  dsn: file:warehouse.db?mode=ro
aliases:
  OUT: /var/exports
exports:
  - query: select id as id from items
    output_file: items.csv
    dir_alias: OUT
runtime:
  parallel: 2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	job, err := Load(writeFile(t, "job.json", jobJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if job.Name != "nightly" || job.Source.Kind != "sqlite" {
		t.Fatalf("top level decoded wrong: %+v", job)
	}
	if len(job.Exports) != 1 {
		t.Fatalf("exports = %d, want 1", len(job.Exports))
	}
	e := job.Exports[0]
	if e.OutputFile != "items.csv" || e.DirAlias != "OUT" || e.WriteMode != "append" ||
		e.BatchSize != 500 || e.Delimiter != ";" || e.Encoding != "latin1" || !e.Debug {
		t.Fatalf("export decoded wrong: %+v", e)
	}
	if job.Runtime.Parallel != 2 {
		t.Fatalf("runtime.parallel = %d, want 2", job.Runtime.Parallel)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	job, err := Load(writeFile(t, "job.yaml", jobYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if job.Name != "nightly" || len(job.Exports) != 1 || job.Aliases["OUT"] != "/var/exports" {
		t.Fatalf("yaml decoded wrong: %+v", job)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeFile(t, "job.json", "{nope")); err == nil {
		t.Fatal("Load should fail on malformed JSON")
	}
}

func validJob() Job {
	return Job{
		Name:    "j",
		Source:  Source{Kind: "sqlite", DSN: "file:x.db"},
		Aliases: map[string]string{"OUT": "/var/exports"},
		Exports: []Export{{
			Query:      "select 1 as one",
			OutputFile: "one.csv",
			DirAlias:   "OUT",
		}},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	if issues := Validate(validJob()); HasErrors(issues) {
		t.Fatalf("valid job reported errors: %v", issues)
	}
}

func TestValidate_Findings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Job)
		path   string
	}{
		{"empty name", func(j *Job) { j.Name = "" }, "job"},
		{"no source kind", func(j *Job) { j.Source.Kind = "" }, "source.kind"},
		{"no dsn", func(j *Job) { j.Source.DSN = " " }, "source.dsn"},
		{"no aliases", func(j *Job) { j.Aliases = nil }, "aliases"},
		{"no exports", func(j *Job) { j.Exports = nil }, "exports"},
		{"empty query", func(j *Job) { j.Exports[0].Query = "" }, "exports[0].query"},
		{"pathy output", func(j *Job) { j.Exports[0].OutputFile = "a/b.csv" }, "exports[0].output_file"},
		{"unknown alias", func(j *Job) { j.Exports[0].DirAlias = "NOPE" }, "exports[0].dir_alias"},
		{"bad mode", func(j *Job) { j.Exports[0].WriteMode = "rw" }, "exports[0].write_mode"},
		{"negative batch", func(j *Job) { j.Exports[0].BatchSize = -1 }, "exports[0].batch_size"},
		{"long delimiter", func(j *Job) { j.Exports[0].Delimiter = "||" }, "exports[0].delimiter"},
		{"bad encoding", func(j *Job) { j.Exports[0].Encoding = "klingon" }, "exports[0].encoding"},
		{"negative parallel", func(j *Job) { j.Runtime.Parallel = -1 }, "runtime.parallel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			job := validJob()
			tc.mutate(&job)
			issues := Validate(job)
			if !HasErrors(issues) {
				t.Fatalf("expected an error issue, got %v", issues)
			}
			found := false
			for _, iss := range issues {
				if iss.Path == tc.path && iss.Severity == SeverityError {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error at path %q in %v", tc.path, issues)
			}
		})
	}
}

func TestValidate_RelativeAliasWarns(t *testing.T) {
	t.Parallel()

	job := validJob()
	job.Aliases["REL"] = "relative/dir"
	issues := Validate(job)
	if HasErrors(issues) {
		t.Fatalf("relative alias must warn, not error: %v", issues)
	}
	found := false
	for _, iss := range issues {
		if iss.Path == "aliases.REL" && iss.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("no warning for relative alias in %v", issues)
	}
}
