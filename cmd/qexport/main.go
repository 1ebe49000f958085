// Command qexport exports the results of arbitrary queries to delimited flat
// files. It loads a job file, optionally validates it and exits, opens the
// configured database source, and runs every export in the job. Independent
// exports may run concurrently; each individual export is single-threaded
// with memory bounded by its batch size.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"qexport/internal/config"
	"qexport/internal/export"
	"qexport/internal/fsys"
	"qexport/internal/metrics"
	"qexport/internal/metrics/datadog"
	"qexport/internal/metrics/prompush"
	"qexport/internal/source"

	// register all source backends with the registry. The job file selects
	// which one to use, but the binary supports all of them.
	_ "qexport/internal/source/all"
)

func main() {
	var (
		cfgPath        string
		validate       bool
		metricsBackend string
		pushGatewayURL string
		statsdAddr     string
		parallel       int
		verbose        bool
	)

	flag.StringVar(&cfgPath, "config", "configs/sample.json", "job file path (.json, .yaml)")
	flag.BoolVar(&validate, "validate", false, "validate the job file and exit")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend (none, pushgateway, datadog)")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddr, "statsd-addr", "", "DogStatsD address (overrides env STATSD_ADDR)")
	flag.IntVar(&parallel, "parallel", 0, "max exports running at once (overrides runtime.parallel)")
	flag.BoolVar(&verbose, "v", false, "enable verbose logs")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	job, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", cfgPath).Msg("load job file")
	}

	issues := config.Validate(job)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Fatal().Str("config", cfgPath).Msg("job file is invalid")
	}
	if validate {
		log.Info().Str("config", cfgPath).Msg("job file is valid")
		return
	}

	if err := setupMetrics(metricsBackend, pushGatewayURL, statsdAddr, job.Name); err != nil {
		log.Fatal().Err(err).Msg("metrics backend")
	}

	ctx := context.Background()
	db, err := source.Open(ctx, source.Config{Kind: job.Source.Kind, DSN: job.Source.DSN})
	if err != nil {
		log.Fatal().Err(err).Str("kind", job.Source.Kind).Msg("open source")
	}
	defer db.Close()

	limit := parallel
	if limit <= 0 {
		limit = job.Runtime.Parallel
	}
	if limit <= 0 {
		limit = 1
	}

	opts := export.Options{
		DB:      db,
		Aliases: fsys.Aliases(job.Aliases),
		Log:     log.With().Str("job", job.Name).Logger(),
		Job:     job.Name,
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, e := range job.Exports {
		spec := toSpec(e)
		g.Go(func() error {
			_, err := export.Export(gctx, opts, spec)
			if err != nil {
				return fmt.Errorf("%s: %w", spec.OutputFile, err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	if err := metrics.Flush(); err != nil {
		log.Warn().Err(err).Msg("flush metrics")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Dur("elapsed", time.Since(start)).Msg("job failed")
	}
	log.Info().
		Int("exports", len(job.Exports)).
		Dur("elapsed", time.Since(start)).
		Msg("job complete")
}

func toSpec(e config.Export) export.Spec {
	mode, _ := fsys.ParseMode(e.WriteMode) // validated already
	return export.Spec{
		Query:      e.Query,
		OutputFile: e.OutputFile,
		DirAlias:   e.DirAlias,
		DateFormat: e.DateFormat,
		WriteMode:  mode,
		BatchSize:  e.BatchSize,
		Delimiter:  e.Delimiter,
		Encoding:   e.Encoding,
		Debug:      e.Debug,
	}
}

// setupMetrics installs the selected metrics backend. Flag values win over
// environment variables.
func setupMetrics(backend, gatewayURL, statsdAddr, jobName string) error {
	switch backend {
	case "", "none":
		return nil
	case "pushgateway":
		url := gatewayURL
		if url == "" {
			url = os.Getenv("PUSHGATEWAY_URL")
		}
		if url == "" {
			url = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, url)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	case "datadog":
		addr := statsdAddr
		if addr == "" {
			addr = os.Getenv("STATSD_ADDR")
		}
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "qexport."})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	}
	return fmt.Errorf("unknown metrics backend %q", backend)
}
