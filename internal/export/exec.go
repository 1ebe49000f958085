package export

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"qexport/internal/export/errkind"
	"qexport/internal/fsys"
	"qexport/internal/platform"
)

// Result is the terminal outcome of a successful export. There is no partial
// success: either every matched row was written or the call failed.
type Result struct {
	RunID    string
	Rows     int64
	Batches  int64
	Bytes    int64
	Checksum uint64 // XXH3 of all bytes written to the main artifact
	Duration time.Duration
}

// colBuf is the per-column batch buffer. It implements sql.Scanner so each
// fetched value is converted to its field representation immediately, before
// the driver can recycle its row memory. All buffers grow in lock-step, one
// append per column per fetched row.
type colBuf struct {
	kind   Kind
	layout string // date layout, set by the session step
	vals   []string
}

func (b *colBuf) reset() { b.vals = b.vals[:0] }

// Scan converts one driver value to the string written to the output file.
// NULL renders as the empty field.
func (b *colBuf) Scan(src any) error {
	s, err := b.render(src)
	if err != nil {
		return err
	}
	b.vals = append(b.vals, s)
	return nil
}

func (b *colBuf) render(src any) (string, error) {
	if src == nil {
		return "", nil
	}
	switch v := src.(type) {
	case time.Time:
		if b.kind == Date {
			return v.Format(b.layout), nil
		}
		return v.Format(time.RFC3339), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	}
	return fmt.Sprint(src), nil
}

// Executor runs synthesized programs against a live database. It carries no
// column-specific knowledge; everything it needs is in the program.
type Executor struct {
	DB      *sql.DB
	Aliases fsys.Aliases
	Log     zerolog.Logger
}

// Execute interprets the program's steps in order. Single-threaded and fully
// blocking; memory is bounded by the program's batch size. On any failure the
// cursor and the output handle are force-closed before the error propagates.
func (e *Executor) Execute(ctx context.Context, p *Program) (Result, error) {
	var (
		res  Result
		bufs []*colBuf
		term string
		out  *fsys.Writer
		rows *sql.Rows
	)

	// Force-close on every exit path; both closers tolerate repetition.
	defer func() {
		if rows != nil {
			_ = rows.Close()
		}
		if out != nil {
			_ = out.Close()
		}
	}()

	for _, st := range p.Steps {
		switch st.Op {
		case OpDeclare:
			bufs = make([]*colBuf, len(p.Columns))
			for i, c := range p.Columns {
				bufs[i] = &colBuf{kind: c.Kind, vals: make([]string, 0, p.Spec.BatchSize)}
			}

		case OpLineTerm:
			term = platform.LineTerminator()

		case OpSession:
			for _, b := range bufs {
				b.layout = p.DateLayout
			}

		case OpOpenOutput:
			enc, err := fsys.Encoder(p.Spec.Encoding)
			if err != nil {
				return res, err
			}
			out, err = fsys.Open(e.Aliases, p.Spec.DirAlias, p.Spec.OutputFile, p.Spec.WriteMode, enc)
			if err != nil {
				return res, err
			}

		case OpOpenCursor:
			var err error
			rows, err = e.DB.QueryContext(ctx, p.Spec.Query)
			if err != nil {
				return res, errkind.New(errkind.Read, err)
			}

		case OpFetchLoop:
			if err := e.fetchLoop(p, rows, bufs, out, term, &res); err != nil {
				return res, err
			}

		case OpClose:
			if err := rows.Close(); err != nil {
				return res, errkind.New(errkind.Read, err)
			}
			if err := out.Close(); err != nil {
				return res, err
			}
			res.Bytes = out.Bytes()
			res.Checksum = out.Sum64()

		case OpHandler, OpEnd:
			// render-time steps; failures are classified where they occur
		}
	}
	return res, nil
}

// fetchLoop is the batched fetch-and-write loop. The loop ends on the
// cursor's no-more-rows signal, never on a row-count comparison, so a final
// partial batch is fully written before exit.
func (e *Executor) fetchLoop(p *Program, rows *sql.Rows, bufs []*colBuf, out *fsys.Writer, term string, res *Result) error {
	dests := make([]any, len(bufs))
	for i, b := range bufs {
		dests[i] = b
	}

	exhausted := false
	for !exhausted {
		for _, b := range bufs {
			b.reset()
		}
		n := 0
		for n < p.Spec.BatchSize {
			if !rows.Next() {
				exhausted = true
				break
			}
			if err := rows.Scan(dests...); err != nil {
				return errkind.New(errkind.Read, err)
			}
			n++
		}
		if err := rows.Err(); err != nil {
			return errkind.New(errkind.Read, err)
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			for c, b := range bufs {
				field := b.vals[i]
				if c > 0 {
					field = p.Spec.Delimiter + field
				}
				if err := out.WriteField(field); err != nil {
					return err
				}
			}
			if err := out.WriteLineEnd(term); err != nil {
				return err
			}
		}
		res.Rows += int64(n)
		res.Batches++
		e.Log.Debug().
			Int("batch_rows", n).
			Int64("total_rows", res.Rows).
			Msg("batch written")
	}
	return nil
}
