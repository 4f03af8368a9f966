package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"scrutiny/internal/logging"
	"scrutiny/internal/records"
)

// Run executes spec's invocations in order against store. Stages run
// strictly one after another, each at most once; the first failure aborts
// everything after it. Identifier and parameter problems surface as this
// package's sentinels, while an error from inside a stage propagates
// unmodified so callers see exactly what the stage returned.
func Run(ctx context.Context, spec Spec, reg Registry, store *records.Store) error {
	log := logging.New("engine")

	for i, inv := range spec {
		if err := ctx.Err(); err != nil {
			return err
		}

		fn, err := reg.Resolve(inv.Name)
		if err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		if _, clash := inv.Params[ReservedStoreParam]; clash {
			return fmt.Errorf("%w: stage %d (%s) declares %q",
				ErrReservedParam, i, inv.Name, ReservedStoreParam)
		}

		log.Info("running stage",
			slog.Int("index", i),
			slog.String("stage", inv.Name),
			slog.Int("records", store.Len()))
		if err := fn(store, inv.Params); err != nil {
			return err
		}
	}
	return nil
}
