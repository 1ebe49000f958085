package export

import (
	"qexport/internal/fsys"
)

// DebugSuffix is appended to the output file name for the side artifact that
// carries the rendered program text.
const DebugSuffix = ".sql"

// Materialize writes the program's rendered text to OutputFile+DebugSuffix in
// the same alias directory. The artifact is always opened in overwrite mode
// regardless of the export's write mode, and is fully written and closed
// before any row is fetched. Any failure here aborts the whole export: there
// is never a completed export with a missing or truncated debug artifact.
func Materialize(p *Program, aliases fsys.Aliases) error {
	w, err := fsys.Open(aliases, p.Spec.DirAlias, p.Spec.OutputFile+DebugSuffix, fsys.ModeOverwrite, nil)
	if err != nil {
		return err
	}
	if err := w.WriteField(p.Render()); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
