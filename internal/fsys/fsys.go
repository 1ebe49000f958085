// Package fsys provides the directory-alias registry and the scoped output
// writer used by export runs.
//
// Files are never addressed by raw path: callers name a directory alias from
// the job configuration plus a bare file name. The writer owns its handle
// exclusively for the duration of one export and performs per-field and
// per-line writes; values are written verbatim, with no quoting or escaping.
package fsys

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"qexport/internal/export/errkind"
)

// Aliases maps a directory alias to the directory path it stands for.
// The registry is built once from configuration and treated as read-only.
type Aliases map[string]string

// Resolve returns the directory behind alias or a Path-classified error.
func (a Aliases) Resolve(alias string) (string, error) {
	dir, ok := a[alias]
	if !ok {
		return "", errkind.Newf(errkind.Path, "unknown directory alias %q", alias)
	}
	return dir, nil
}

// Mode selects how an output file is opened.
type Mode string

const (
	ModeOverwrite Mode = "overwrite"
	ModeAppend    Mode = "append"
)

// ParseMode maps a configuration string onto a Mode. The empty string
// defaults to overwrite; anything else unknown is a Mode-classified error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "":
		return ModeOverwrite, nil
	case ModeOverwrite:
		return ModeOverwrite, nil
	case ModeAppend:
		return ModeAppend, nil
	}
	return "", errkind.Newf(errkind.Mode, "unknown write mode %q", s)
}

// encodings lists the supported output encodings. The empty name and "utf-8"
// mean no transformation.
var encodings = map[string]*charmap.Charmap{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
}

// Encoder resolves an encoding name to an encoder, or nil for UTF-8.
func Encoder(name string) (*encoding.Encoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	cm, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, errkind.Newf(errkind.Mode, "unknown output encoding %q", name)
	}
	return cm.NewEncoder(), nil
}

// EncodingNames returns the recognized encoding names, for validation messages.
func EncodingNames() []string {
	names := []string{"utf-8"}
	for n := range encodings {
		names = append(names, n)
	}
	return names
}

// countingWriter tracks bytes and a running XXH3 digest of everything that
// reaches the underlying buffered writer.
type countingWriter struct {
	dst   *bufio.Writer
	hash  *xxh3.Hasher
	bytes int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.dst.Write(p)
	if n > 0 {
		_, _ = c.hash.Write(p[:n])
		c.bytes += int64(n)
	}
	return n, err
}

// Writer is a scoped, exclusively-owned output handle. Close is required on
// every exit path; the surrounding code provides no finalizer.
type Writer struct {
	f      *os.File
	count  *countingWriter
	sink   io.Writer // count, or a transform.Writer feeding count
	tw     *transform.Writer
	path   string
	closed bool
}

// Open resolves alias/name against the registry and acquires the handle.
// Unknown aliases and unusable names fail with a Path classification, unknown
// modes with Mode, and an open failure on a valid target with Operation.
func Open(aliases Aliases, alias, name string, mode Mode, enc *encoding.Encoder) (*Writer, error) {
	dir, err := aliases.Resolve(alias)
	if err != nil {
		return nil, err
	}
	if name == "" || name != filepath.Base(name) {
		return nil, errkind.Newf(errkind.Path, "unusable output file name %q", name)
	}

	var flags int
	switch mode {
	case ModeOverwrite:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, errkind.Newf(errkind.Mode, "unknown write mode %q", mode)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errkind.New(errkind.Operation, err)
	}

	w := &Writer{
		f:     f,
		count: &countingWriter{dst: bufio.NewWriter(f), hash: xxh3.New()},
		path:  path,
	}
	w.sink = w.count
	if enc != nil {
		w.tw = transform.NewWriter(w.count, enc)
		w.sink = w.tw
	}
	return w, nil
}

// Path returns the resolved location of the output artifact.
func (w *Writer) Path() string { return w.path }

// WriteField writes one field's bytes verbatim.
func (w *Writer) WriteField(s string) error {
	if w.closed {
		return errkind.Newf(errkind.Handle, "write to closed handle %q", w.path)
	}
	if _, err := io.WriteString(w.sink, s); err != nil {
		return errkind.New(errkind.Write, err)
	}
	return nil
}

// WriteLineEnd terminates the current line with the given terminator.
func (w *Writer) WriteLineEnd(term string) error {
	return w.WriteField(term)
}

// Close flushes and releases the handle. Closing twice is a no-op, so error
// paths can close unconditionally.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.tw != nil {
		if err := w.tw.Close(); err != nil {
			_ = w.f.Close()
			return errkind.New(errkind.Write, err)
		}
	}
	if err := w.count.dst.Flush(); err != nil {
		_ = w.f.Close()
		return errkind.New(errkind.Write, err)
	}
	if err := w.f.Close(); err != nil {
		return errkind.New(errkind.Operation, err)
	}
	return nil
}

// Bytes reports how many bytes reached the file so far.
func (w *Writer) Bytes() int64 { return w.count.bytes }

// Sum64 returns the XXH3 digest of everything written.
func (w *Writer) Sum64() uint64 { return w.count.hash.Sum64() }
