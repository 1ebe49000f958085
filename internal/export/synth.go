package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"qexport/internal/datefmt"
	"qexport/internal/export/errkind"
)

// StepOp identifies what a pipeline step does when executed. The renderer
// gives every step a textual form; the executor dispatches on the op.
type StepOp uint8

const (
	OpDeclare    StepOp = iota + 1 // allocate per-column batch buffers
	OpLineTerm                     // resolve the host line terminator
	OpSession                      // apply the caller's date format
	OpOpenOutput                   // acquire the output handle
	OpOpenCursor                   // open the query cursor
	OpFetchLoop                    // batched fetch-and-write loop
	OpClose                        // close cursor and output
	OpHandler                      // named error handler (render/log only)
	OpEnd                          // terminator (render only)
)

// Step is one element of the synthesized pipeline: an op plus its rendered
// text. Handler steps additionally carry the error kind they answer for.
type Step struct {
	Op   StepOp
	Kind errkind.Kind
	Text string
}

// Program is the synthesized pipeline: the ordered steps plus the execution
// plan the steps refer to. It is built once per export, owned by that export,
// and consumed by both the executor and the debug materializer.
type Program struct {
	Spec       Spec // defaulted copy of the caller's spec
	Columns    []Column
	DateLayout string // Go layout translated from Spec.DateFormat
	Steps      []Step
}

// Render returns the program's textual form. Synthesize is deterministic, so
// identical (spec, columns) inputs render byte-identically.
func (p *Program) Render() string {
	var b strings.Builder
	for _, st := range p.Steps {
		b.WriteString(st.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// handlerKinds is the fixed set of named I/O handlers every program carries,
// in emission order.
var handlerKinds = []errkind.Kind{
	errkind.Path, errkind.Mode, errkind.Operation, errkind.Handle,
	errkind.Write, errkind.Read, errkind.Internal,
}

// Synthesize builds the typed pipeline for one export as a pure function of
// the spec and the introspected column set. It performs the caller-error
// checks that introspection deliberately leaves to convention: at least one
// column, and an explicit alias on every select-list expression.
func Synthesize(spec Spec, cols []Column) (*Program, error) {
	spec = spec.withDefaults()

	if len(cols) == 0 {
		return nil, errkind.Newf(errkind.Describe, "no columns to export")
	}
	for _, c := range cols {
		if c.Name == "" {
			return nil, errkind.Newf(errkind.Describe,
				"column %d has no alias; every select-list expression must be aliased", c.Pos)
		}
	}
	if spec.BatchSize <= 0 {
		return nil, errkind.Newf(errkind.Internal, "batch size %d must be positive", spec.BatchSize)
	}
	if utf8.RuneCountInString(spec.Delimiter) != 1 {
		return nil, errkind.Newf(errkind.Internal, "delimiter %q must be a single character", spec.Delimiter)
	}
	if spec.OutputFile == "" {
		return nil, errkind.Newf(errkind.Path, "output file name is empty")
	}

	p := &Program{
		Spec:       spec,
		Columns:    cols,
		DateLayout: datefmt.Layout(spec.DateFormat),
	}

	vars := varNames(cols)
	p.Steps = append(p.Steps, declareStep(spec, cols, vars))
	p.Steps = append(p.Steps,
		Step{Op: OpLineTerm, Text: "  l_eol := host_line_terminator();"},
		Step{Op: OpSession, Text: fmt.Sprintf("  set_session_date_format('%s');", spec.DateFormat)},
		Step{Op: OpOpenOutput, Text: fmt.Sprintf("  l_out := file_open('%s', '%s', '%s');",
			spec.DirAlias, spec.OutputFile, spec.WriteMode)},
		cursorStep(spec.Query),
		fetchLoopStep(spec, cols, vars),
		Step{Op: OpClose, Text: "  CLOSE cur;\n  file_close(l_out);"},
	)
	for i, k := range handlerKinds {
		text := fmt.Sprintf("  WHEN %s THEN file_close(l_out); log_error('%s'); RAISE;",
			k.String(), k.Message())
		if i == 0 {
			text = "EXCEPTION\n" + text
		}
		p.Steps = append(p.Steps, Step{Op: OpHandler, Kind: k, Text: text})
	}
	p.Steps = append(p.Steps, Step{Op: OpEnd, Text: "END;"})
	return p, nil
}

// varNames derives one render-only variable name per column. Execution is
// positional, so sanitized name collisions are harmless.
func varNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		var b strings.Builder
		b.WriteString("l_")
		for _, r := range strings.ToLower(c.Name) {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
		names[i] = b.String()
	}
	return names
}

func bufferType(k Kind) string {
	switch k {
	case Numeric:
		return "num_tab"
	case Date:
		return "date_tab"
	}
	return "text_tab"
}

func declareStep(spec Spec, cols []Column, vars []string) Step {
	width := len("l_eol")
	for _, v := range vars {
		if len(v) > width {
			width = len(v)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- synthesized export program\n")
	fmt.Fprintf(&b, "-- output: %s:%s mode=%s batch=%d delimiter=%q",
		spec.DirAlias, spec.OutputFile, spec.WriteMode, spec.BatchSize, spec.Delimiter)
	if spec.Encoding != "" {
		fmt.Fprintf(&b, " encoding=%s", spec.Encoding)
	}
	b.WriteString("\nDECLARE\n")
	for i, c := range cols {
		fmt.Fprintf(&b, "  %-*s %s; -- column %d: %s %s\n",
			width, vars[i], bufferType(c.Kind), c.Pos, c.Name, c.Kind)
	}
	fmt.Fprintf(&b, "  %-*s file_handle;\n", width, "l_out")
	fmt.Fprintf(&b, "  %-*s varchar2(2);\n", width, "l_eol")
	b.WriteString("BEGIN")
	return Step{Op: OpDeclare, Text: b.String()}
}

func cursorStep(query string) Step {
	var b strings.Builder
	b.WriteString("  OPEN cur FOR\n")
	for _, line := range strings.Split(query, "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("  ;")
	return Step{Op: OpOpenCursor, Text: b.String()}
}

func fetchLoopStep(spec Spec, cols []Column, vars []string) Step {
	var b strings.Builder
	b.WriteString("  LOOP\n")
	fmt.Fprintf(&b, "    FETCH cur BULK COLLECT INTO %s LIMIT %d;\n",
		strings.Join(vars, ", "), spec.BatchSize)
	fmt.Fprintf(&b, "    FOR i IN 1 .. %s.COUNT LOOP\n", vars[0])
	for i, c := range cols {
		expr := fmt.Sprintf("%s(i)", vars[i])
		if c.Kind != Text {
			expr = fmt.Sprintf("to_char(%s)", expr)
		}
		if i > 0 {
			expr = fmt.Sprintf("'%s' || %s", spec.Delimiter, expr)
		}
		fmt.Fprintf(&b, "      file_put(l_out, %s);\n", expr)
	}
	b.WriteString("      file_put(l_out, l_eol);\n")
	b.WriteString("    END LOOP;\n")
	b.WriteString("    EXIT WHEN cur%NOTFOUND;\n")
	b.WriteString("  END LOOP;")
	return Step{Op: OpFetchLoop, Text: b.String()}
}
