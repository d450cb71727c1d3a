package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"estatecore/internal/blob"
	"estatecore/internal/config"
	"estatecore/internal/core"
)

type app struct {
	envFiles []string
	trace    bool

	cfg     config.Config
	logger  *slog.Logger
	printer *message.Printer
	svc     *core.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "estatecore",
		Short:         "Real-estate CRM data store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.svc == nil {
				return nil
			}
			return a.svc.Close()
		},
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "env files to read before the environment (default .env)")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "write operation spans as JSON lines to stderr")
	root.AddCommand(
		newSeedCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newScheduleCmd(a),
		newSnapshotCmd(a),
		newServeMetricsCmd(a),
	)
	return root
}

func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	tag, err := cfg.Language()
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.printer = cfg, logger, message.NewPrinter(tag)
	return nil
}

// open connects the configured store and builds the service, seeding it when configured.
func (a *app) open(ctx context.Context, cmd *cobra.Command, extra ...core.ServiceOption) (*core.Service, error) {
	store, err := core.OpenPersistentStore(ctx, a.cfg.StorageConfig(), core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	opts := []core.ServiceOption{
		core.WithLogger(a.logger),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: a.logger}),
	}
	if a.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr(), 0)))
	}
	a.svc = core.NewService(store, append(opts, extra...)...)
	if a.cfg.Seed {
		if _, err := a.svc.SeedIfEmpty(ctx); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("store opened", "driver", a.cfg.Storage)
	return a.svc, nil
}

func (a *app) openWithBlobs(ctx context.Context, cmd *cobra.Command) (*core.Service, error) {
	blobs, err := blob.Open(ctx, a.cfg.BlobConfig())
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	return a.open(ctx, cmd, core.WithBlobStore(blobs))
}
