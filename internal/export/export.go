package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"qexport/internal/export/errkind"
	"qexport/internal/fsys"
	"qexport/internal/metrics"
)

// Options carries the collaborators one export run needs: an open database,
// the directory-alias registry, a logger, and the job name used for metrics
// labels.
type Options struct {
	DB      *sql.DB
	Aliases fsys.Aliases
	Log     zerolog.Logger
	Job     string
}

// Export runs the whole pipeline for one spec: describe, synthesize,
// materialize the debug artifact when requested, then execute.
//
// Error policy: every failure is classified by the errkind taxonomy, logged
// here exactly once with the kind's fixed message, and returned unchanged.
// Nothing is retried; re-running with overwrite mode is the recovery path.
func Export(ctx context.Context, opts Options, spec Spec) (Result, error) {
	spec = spec.withDefaults()
	start := time.Now()

	runID := uuid.NewString()
	log := opts.Log.With().
		Str("run_id", runID).
		Str("output", spec.OutputFile).
		Logger()

	res, err := run(ctx, opts, log, spec)
	res.RunID = runID
	res.Duration = time.Since(start)

	metrics.RecordExport(opts.Job, res.Rows, res.Batches, err, res.Duration)
	if err != nil {
		kind := errkind.KindOf(err)
		log.Error().
			Str("kind", kind.String()).
			Err(err).
			Msg(kind.Message())
		return res, err
	}

	log.Info().
		Int64("rows", res.Rows).
		Int64("batches", res.Batches).
		Int64("bytes", res.Bytes).
		Str("checksum", formatChecksum(res.Checksum)).
		Dur("elapsed", res.Duration).
		Msg("export complete")
	return res, nil
}

func run(ctx context.Context, opts Options, log zerolog.Logger, spec Spec) (Result, error) {
	cols, err := Describe(ctx, opts.DB, spec.Query)
	if err != nil {
		return Result{}, err
	}

	prog, err := Synthesize(spec, cols)
	if err != nil {
		return Result{}, err
	}

	if spec.Debug {
		if err := Materialize(prog, opts.Aliases); err != nil {
			return Result{}, err
		}
		log.Debug().Str("artifact", spec.OutputFile+DebugSuffix).Msg("debug program written")
	}

	ex := &Executor{DB: opts.DB, Aliases: opts.Aliases, Log: log}
	return ex.Execute(ctx, prog)
}

func formatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
