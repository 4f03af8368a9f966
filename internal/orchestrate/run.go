// Package orchestrate coordinates one full run: input materialization,
// pipeline execution, result presentation, and optional re-packaging,
// with working directories cleaned up on every exit path.
package orchestrate

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"scrutiny/internal/archiver"
	"scrutiny/internal/cleanup"
	"scrutiny/internal/logging"
	"scrutiny/internal/materialize"
	"scrutiny/internal/pipeline"
	"scrutiny/internal/present"
	"scrutiny/internal/records"
)

// Input validation failures, reported before any working directory is
// created.
var (
	// ErrConflictingInputs is returned when both tally archives and an
	// election config are given in one run.
	ErrConflictingInputs = errors.New("orchestrate: tally archives and an election config are mutually exclusive")
	// ErrNoInput is returned when a run has nothing to process.
	ErrNoInput = errors.New("orchestrate: no tally archive or election config given")
)

// Config holds everything one run needs.
type Config struct {
	Tallies        []string          // tally archive paths, one record each, in order
	ElectionConfig string            // election config path to synthesize an empty tally from
	Spec           pipeline.Spec     // stage list to execute
	Registry       pipeline.Registry // resolves stage identifiers
	Format         present.Format    // how to render the first record's results
	Stdout         io.Writer         // receives the rendered results
	TarDir         string            // when set, receives one repacked output per input archive
	KeepWorkdirs   bool              // leave working directories behind for inspection
}

// Run executes one run end to end:
//
//  1. Reject conflicting or missing inputs before touching the filesystem.
//  2. Materialize one record per input (archive extraction or ephemeral
//     synthesis), registering every working directory with a cleanup
//     guard armed against termination signals.
//  3. Execute the configured pipeline over the record store.
//  4. Render the first record's results to cfg.Stdout.
//  5. Re-package results with the original archives when cfg.TarDir is set.
//
// Working directories are removed before Run returns, on success and
// failure alike; a termination signal triggers the same removal before
// the process dies. KeepWorkdirs trades that cleanup for a log line per
// directory.
func Run(ctx context.Context, cfg Config) error {
	if len(cfg.Tallies) > 0 && cfg.ElectionConfig != "" {
		return ErrConflictingInputs
	}
	if len(cfg.Tallies) == 0 && cfg.ElectionConfig == "" {
		return ErrNoInput
	}

	log := logging.New("orchestrate")
	guard := cleanup.New()
	stop := guard.Notify()
	defer stop()
	defer guard.Release()

	store := records.NewStore()
	addRecord := func(dir string, origin records.Origin) {
		if cfg.KeepWorkdirs {
			log.Info("keeping working directory",
				slog.String("dir", dir), slog.String("origin", origin.String()))
		} else {
			guard.Register(dir)
		}
		store.Append(records.New(dir, origin))
	}

	for _, archive := range cfg.Tallies {
		dir, err := materialize.ExtractArchive(archive)
		if err != nil {
			return err
		}
		addRecord(dir, records.OriginArchive)
	}
	if cfg.ElectionConfig != "" {
		dir, err := materialize.MaterializeEphemeral(cfg.ElectionConfig)
		if err != nil {
			return err
		}
		addRecord(dir, records.OriginEphemeral)
	}

	if err := pipeline.Run(ctx, cfg.Spec, cfg.Registry, store); err != nil {
		return err
	}

	if err := present.Render(cfg.Stdout, store.First(), cfg.Format); err != nil {
		return err
	}

	if cfg.TarDir != "" {
		if err := archiver.Repack(ctx, cfg.Tallies, store.First(), cfg.TarDir); err != nil {
			return err
		}
	}
	return nil
}
