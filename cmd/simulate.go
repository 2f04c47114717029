package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/battsim/core/battery"
	"github.com/kilianp07/battsim/core/dispatch"
	"github.com/kilianp07/battsim/core/factory"
	coremetrics "github.com/kilianp07/battsim/core/metrics"
	coremon "github.com/kilianp07/battsim/core/monitoring"
	"github.com/kilianp07/battsim/core/simulation"
	"github.com/kilianp07/battsim/infra/logger"
	_ "github.com/kilianp07/battsim/infra/metrics" // registers step sinks
	"github.com/kilianp07/battsim/infra/monitoring"
	"github.com/kilianp07/battsim/pkg/export"
)

var (
	simHours    int
	simRunID    string
	metricsAddr string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [series.csv]",
	Short: "Run the battery bank over an hourly PV and load series",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simHours, "hours", 0, "limit the run to the first N steps")
	simulateCmd.Flags().StringVar(&simRunID, "run-id", "", "run identifier (generated when empty)")
	simulateCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logg := logger.New("simulate")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logg.Warnf("sentry disabled: %v", err)
	}
	coremon.Init(mon)
	defer coremon.Flush(2 * time.Second)
	defer coremon.Recover()

	input := cfg.Simulation.Input
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("no input series: set simulation.input or pass a file")
	}
	series, err := simulation.LoadSeries(input, cfg.Simulation.Columns)
	if err != nil {
		return err
	}
	hours := cfg.Simulation.Hours
	if simHours > 0 {
		hours = simHours
	}
	series = series.Truncate(hours)

	bank, err := battery.NewBankFromConfig(cfg.Battery, logger.New("battery"))
	if err != nil {
		return err
	}
	ctrl, err := dispatch.NewControllerFromConfig(cfg.Dispatch, bank, cfg.Battery.TimestepHours)
	if err != nil {
		return err
	}

	sinks := cfg.Metrics.Sinks
	if metricsAddr != "" {
		sinks = append(sinks, factory.ModuleConfig{Type: "prometheus", Conf: map[string]any{"addr": metricsAddr}})
	}
	sink, err := coremetrics.NewStepSink(sinks)
	if err != nil {
		return err
	}
	defer func() {
		if err := coremetrics.Close(sink); err != nil {
			logg.Errorf("close sinks: %v", err)
		}
	}()

	opts := []simulation.Option{
		simulation.WithLogger(logg),
		simulation.WithStart(cfg.Simulation.StartTime()),
		simulation.WithFirstHour(cfg.Simulation.FirstHour()),
	}
	if simRunID != "" {
		opts = append(opts, simulation.WithRunID(simRunID))
	}
	runner := simulation.NewRunner(bank, ctrl, sink, opts...)
	sum, err := runner.Run(ctx, series)
	if err != nil {
		coremon.CaptureException(err, map[string]string{"run_id": runner.RunID()})
		return err
	}

	return export.WriteJSON(cmd.OutOrStdout(), sum)
}
