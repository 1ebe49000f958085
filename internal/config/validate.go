// This file adds a lightweight linter/validator for Job values. It performs
// static checks over a decoded Job and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"qexport/internal/fsys"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates an issue that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue surfaced to users but not
	// necessarily blocking.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "exports[1].delimiter"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is of error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Job. It does not mutate the job;
// callers decide whether warnings are fatal.
func Validate(job Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(job.Name) == "" {
		issues = append(issues, Issue{SeverityError, "job",
			"job name must not be empty; it labels logs and metrics"})
	}
	issues = append(issues, validateSource(job.Source)...)
	issues = append(issues, validateAliases(job.Aliases)...)

	if len(job.Exports) == 0 {
		issues = append(issues, Issue{SeverityError, "exports",
			"at least one export is required"})
	}
	for i, e := range job.Exports {
		issues = append(issues, validateExport(fmt.Sprintf("exports[%d]", i), e, job.Aliases)...)
	}

	if job.Runtime.Parallel < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.parallel",
			"parallel must not be negative"})
	}
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if s.Kind == "" {
		issues = append(issues, Issue{SeverityError, "source.kind",
			"source kind is required (postgres, mysql, mssql, sqlite)"})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "source.dsn",
			"source DSN is required"})
	}
	return issues
}

func validateAliases(aliases map[string]string) []Issue {
	var issues []Issue
	if len(aliases) == 0 {
		issues = append(issues, Issue{SeverityError, "aliases",
			"at least one directory alias is required"})
	}
	for name, dir := range aliases {
		path := "aliases." + name
		if strings.TrimSpace(dir) == "" {
			issues = append(issues, Issue{SeverityError, path,
				"alias directory must not be empty"})
			continue
		}
		if !filepath.IsAbs(dir) {
			issues = append(issues, Issue{SeverityWarning, path,
				"alias directory is relative; resolution depends on the working directory"})
		}
	}
	return issues
}

func validateExport(path string, e Export, aliases map[string]string) []Issue {
	var issues []Issue

	if strings.TrimSpace(e.Query) == "" {
		issues = append(issues, Issue{SeverityError, path + ".query",
			"query must not be empty"})
	}
	if e.OutputFile == "" {
		issues = append(issues, Issue{SeverityError, path + ".output_file",
			"output file name must not be empty"})
	} else if e.OutputFile != filepath.Base(e.OutputFile) {
		issues = append(issues, Issue{SeverityError, path + ".output_file",
			"output file must be a bare name without path separators"})
	}
	if _, ok := aliases[e.DirAlias]; !ok {
		issues = append(issues, Issue{SeverityError, path + ".dir_alias",
			fmt.Sprintf("directory alias %q is not defined under aliases", e.DirAlias)})
	}
	if _, err := fsys.ParseMode(e.WriteMode); err != nil {
		issues = append(issues, Issue{SeverityError, path + ".write_mode",
			fmt.Sprintf("write mode %q is not one of overwrite, append", e.WriteMode)})
	}
	if e.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, path + ".batch_size",
			"batch size must not be negative"})
	}
	if e.Delimiter != "" && utf8.RuneCountInString(e.Delimiter) != 1 {
		issues = append(issues, Issue{SeverityError, path + ".delimiter",
			"delimiter must be a single character"})
	}
	if _, err := fsys.Encoder(e.Encoding); err != nil {
		issues = append(issues, Issue{SeverityError, path + ".encoding",
			fmt.Sprintf("encoding %q is not recognized (known: %s)",
				e.Encoding, strings.Join(fsys.EncodingNames(), ", "))})
	}
	return issues
}
