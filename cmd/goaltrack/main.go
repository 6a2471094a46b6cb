// goaltrack tracks life segments, their todos and milestones, and scores
// them with daily evaluations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/app"
	"github.com/sandeepkv93/goaltrack/internal/config"
	"github.com/sandeepkv93/goaltrack/internal/logging"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/scheduler"
	"github.com/sandeepkv93/goaltrack/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "goaltrack failed: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "goaltrack",
	Short: "Track segments, todos and milestones and evaluate progress",
	Long: `goaltrack keeps life areas (segments) with their todos, habits and
milestones in a local SQLite database. Completing work earns activity
points, unfinished todos can be carried over to today, and evaluations
score each segment over a rolling window.

Without a subcommand the terminal UI starts.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $GOALTRACK_CONFIG or ./goaltrack.yaml)")
	rootCmd.AddCommand(tuiCmd, migrateCmd, evalCmd, carryoverCmd, reportCmd, exportCmd, resetCmd, runCmd, purposeCmd, bucketCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// openApp loads configuration and opens the database for a one-shot
// command. The returned cleanup closes the app and flushes the logger.
func openApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = logging.Sync(log)
		return nil, nil, err
	}
	return a, func() {
		if err := a.Close(); err != nil {
			log.Warn("close database", zap.Error(err))
		}
		_ = logging.Sync(log)
	}, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(log) }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := update.OptionsFromConfig(cfg.UI)
	engine := scheduler.NewEngine(opts.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	program := tea.NewProgram(update.NewModel(a, engine, opts), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if dropped := engine.Dropped(); dropped > 0 {
		log.Warn("scheduler dropped events", zap.Uint64("dropped", dropped))
	}
	return nil
}

// dateFlag resolves a --date value, defaulting to today.
func dateFlag(cmd *cobra.Command, a *app.App) (model.Date, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return a.Today(), nil
	}
	d := model.Date(raw)
	if !d.IsValid() {
		return "", model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", raw))
	}
	return d, nil
}
