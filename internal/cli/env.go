package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/flow"
	"github.com/fieldline/labportal/internal/kv"
)

// portalEnv bundles the opened stack every subcommand works against:
// the backing store, the entity store hydrated from it, the draft store
// and the flow definitions priced from the active catalog.
type portalEnv struct {
	backend kv.Backend
	codec   *kv.Codec
	store   *entity.Store
	drafts  *flow.DraftStore
	defs    map[string]*flow.Definition
	logger  *slog.Logger
}

// openEnv configures logging, opens the SQLite backing store at the
// configured path and hydrates the entity store from it.
func openEnv(opts *RootOptions) (*portalEnv, error) {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	backend, err := kv.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	catalog := flow.DefaultCatalog()
	if opts.Catalog != "" {
		catalog, err = flow.LoadCatalog(opts.Catalog)
		if err != nil {
			backend.Close()
			return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
	}

	codec := kv.NewCodec(backend, logger)
	store := entity.New(codec, entity.WithLogger(logger))

	return &portalEnv{
		backend: backend,
		codec:   codec,
		store:   store,
		drafts:  flow.NewDraftStore(codec),
		defs:    flow.Definitions(catalog),
		logger:  logger,
	}, nil
}

// Close releases the backing store and warns when persistence degraded
// during the command: the portal keeps working in memory, but writes may
// not have reached disk.
func (e *portalEnv) Close() {
	if e.store.Degraded() {
		e.logger.Warn("backing store degraded: some reads or writes were dropped")
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

// formatter builds the command's output formatter.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
}
