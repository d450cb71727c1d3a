package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"estatecore/internal/core"
	"estatecore/internal/infra/persistence/memory"
)

func newSeedCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset into an empty store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if force {
				if err := svc.ImportSnapshot(cmd.Context(), core.SeedSnapshot(time.Now())); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "store replaced with demo data")
				return nil
			}
			seeded, err := svc.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "store seeded with demo data")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "store not empty; nothing to do")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing records")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "list <kind>",
		Short:     "List records of one kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return a.renderList(cmd.OutOrStdout(), svc, args[0])
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		user   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			snapshot, err := svc.Statistics(cmd.Context(), user)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}
			return a.renderStatistics(cmd.OutOrStdout(), snapshot)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "acting user name; empty sees every record")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		propertyID string
		projectID  string
		planIndex  int
		price      int64
		out        string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a payment schedule for a property or a project plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (propertyID == "") == (projectID == "") {
				return errors.New("exactly one of --property or --project is required")
			}
			svc, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			var rows []core.ScheduleRow
			if propertyID != "" {
				rows, err = svc.PropertySchedule(cmd.Context(), propertyID)
			} else {
				rows, err = svc.ProjectSchedule(cmd.Context(), projectID, planIndex, price)
			}
			if err != nil {
				return err
			}
			if out != "" {
				payload, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, payload, 0o644); err != nil {
					return fmt.Errorf("write schedule: %w", err)
				}
			}
			return a.renderSchedule(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&propertyID, "property", "", "property id")
	cmd.Flags().StringVar(&projectID, "project", "", "project id")
	cmd.Flags().IntVar(&planIndex, "plan", 0, "payment plan index within the project")
	cmd.Flags().Int64Var(&price, "price", 0, "price to schedule with --project")
	cmd.Flags().StringVar(&out, "out", "", "also write the rows as JSON to this file")
	return cmd
}

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the full state",
	}
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the state to the blob store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.openWithBlobs(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			info, err := svc.ExportSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.Key, a.printer.Sprintf("%d bytes", info.Size))
			if info.URL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info.URL)
			}
			return nil
		},
	}
	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the state with a JSON snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			snapshot, err := memory.DecodeSnapshot(payload)
			if err != nil {
				return err
			}
			svc, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return svc.ImportSnapshot(cmd.Context(), snapshot)
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "snapshot JSON file")
	_ = importCmd.MarkFlagRequired("file")
	cmd.AddCommand(export, importCmd)
	return cmd
}

func newServeMetricsCmd(a *app) *cobra.Command {
	var (
		addr     string
		interval time.Duration
		user     string
	)
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics and refresh dashboard gauges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			recorder, err := core.NewPrometheusRecorder(reg)
			if err != nil {
				return err
			}
			vars := core.NewExpvarMetricsRecorder("")
			svc, err := a.open(cmd.Context(), cmd, core.WithMetricsRecorder(core.MultiMetrics(recorder, vars)))
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.MetricsAddr
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
			mux.Handle("/debug/vars", expvar.Handler())
			return a.serveMetrics(cmd.Context(), &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}, func(ctx context.Context) error {
				return publishStatistics(ctx, svc, recorder, user)
			}, interval)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from ESTATECORE_METRICS_ADDR)")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "dashboard refresh interval")
	cmd.Flags().StringVar(&user, "user", "", "acting user for the dashboard gauges")
	return cmd
}

func publishStatistics(ctx context.Context, svc *core.Service, recorder *core.PrometheusRecorder, user string) error {
	snapshot, err := svc.Statistics(ctx, user)
	if err != nil {
		return err
	}
	recorder.PublishStatistics(snapshot)
	return nil
}

func (a *app) serveMetrics(ctx context.Context, srv *http.Server, refresh func(context.Context) error, interval time.Duration) error {
	if err := refresh(ctx); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving metrics", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			if err := refresh(ctx); err != nil {
				a.logger.Warn("refresh dashboard gauges", "error", err)
			}
		}
	}
}
