// Package main provides the CLI entrypoint for gtdash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gtdash/internal/config"
	"github.com/verte-zerg/gtdash/internal/dashboard"
	"github.com/verte-zerg/gtdash/internal/dashui"
	"github.com/verte-zerg/gtdash/internal/dataset"
	"github.com/verte-zerg/gtdash/internal/logging"
	"github.com/verte-zerg/gtdash/internal/metrics"
	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/stats"
	"github.com/verte-zerg/gtdash/internal/store"
)

const (
	defaultWeaponField = string(model.WeaponSubtype)
	defaultLogLevel    = "info"
)

var (
	dashCSV          string
	dashCountries    string
	dashStartYear    int
	dashEndYear      int
	dashWeaponField  string
	dashGroupPct     int
	dashAllCountries bool

	logLevel    string
	logJSON     bool
	logFile     string
	metricsFile string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gtdash",
		Short:         "Terminal dashboard for terrorism incident data",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dashCSV, "csv", "", "read incidents from a CSV file instead of the imported snapshot")
	flags.StringVar(&dashCountries, "countries", "", "comma-separated country selection")
	flags.IntVar(&dashStartYear, "start", 0, "start year (alone: exactly that year)")
	flags.IntVar(&dashEndYear, "end", 0, "end year (alone: exactly that year)")
	flags.StringVar(&dashWeaponField, "weapon-field", defaultWeaponField, "weapon grouping column (subtype or type)")
	flags.IntVar(&dashGroupPct, "group-percentage", stats.DefaultGroupPercentage, "share of groups kept in the full tree (1-100)")
	flags.BoolVar(&dashAllCountries, "all-countries", false, "treat an empty selection as all countries")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	flags.StringVar(&logFile, "log-file", "", "dashboard log file (default: $XDG_DATA_HOME/gtdash/gtdash.log)")
	flags.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCountriesCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newSampleCmd())

	return rootCmd
}

// session bundles what every command that derives views needs.
type session struct {
	cfg     model.DashboardConfig
	logger  *slog.Logger
	metrics *metrics.Recorder
	reg     *prometheus.Registry
	store   *store.Store
	closers []io.Closer
}

func (s *session) Close() {
	if s.reg != nil && metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile, s.reg); err != nil {
			logErrf("%v\n", err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			logErrf("failed to close: %v\n", err)
		}
	}
}

// openSession resolves configuration, logging, metrics and the store.
// toFile sends logs to the log file instead of stderr.
func openSession(cmd *cobra.Command, toFile bool) (*session, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveDashboardConfig(cmd, fileCfg.Dashboard)
	if err != nil {
		return nil, err
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Logging.Level)
	applyBoolConfig(cmd, "log-json", &logJSON, fileCfg.Logging.JSON)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Logging.File)

	s := &session{cfg: cfg, metrics: metrics.New()}
	if toFile {
		path := logFile
		if path == "" {
			path = config.DefaultLogPath()
		}
		logger, closer, err := logging.OpenFile(path, logLevel, logJSON)
		if err != nil {
			return nil, err
		}
		s.logger = logger
		s.closers = append(s.closers, closer)
	} else {
		s.logger = logging.New(os.Stderr, logLevel, logJSON)
	}

	if metricsFile != "" {
		s.reg = prometheus.NewRegistry()
		if err := s.metrics.Register(s.reg); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	s.store = st
	s.closers = append(s.closers, st)
	return s, nil
}

// resolveDashboardConfig overlays config file values under explicitly set flags.
func resolveDashboardConfig(cmd *cobra.Command, file config.DashboardConfig) (model.DashboardConfig, error) {
	applyStringConfig(cmd, "csv", &dashCSV, file.CSV)
	applyStringConfig(cmd, "weapon-field", &dashWeaponField, file.WeaponField)
	applyIntConfig(cmd, "group-percentage", &dashGroupPct, file.GroupPercentage)
	applyBoolConfig(cmd, "all-countries", &dashAllCountries, file.AllCountries)

	countries := file.Countries
	if cmd.Flags().Changed("countries") {
		countries = selection.SplitList(dashCountries)
	}
	cfg := model.DashboardConfig{
		CSVPath:         dashCSV,
		Countries:       selection.NormalizeCountries(countries),
		StartYear:       yearFlag(cmd, "start", dashStartYear, file.StartYear),
		EndYear:         yearFlag(cmd, "end", dashEndYear, file.EndYear),
		WeaponField:     model.WeaponField(strings.ToLower(strings.TrimSpace(dashWeaponField))),
		GroupPercentage: dashGroupPct,
		AllCountries:    dashAllCountries,
	}
	if err := validateDashboardConfig(cfg); err != nil {
		return model.DashboardConfig{}, err
	}
	return cfg, nil
}

func yearFlag(cmd *cobra.Command, name string, flagValue int, fileValue *int) *int {
	if cmd.Flags().Changed(name) {
		return model.Year(flagValue)
	}
	if fileValue != nil {
		return model.Year(*fileValue)
	}
	return nil
}

func validateDashboardConfig(cfg model.DashboardConfig) error {
	if !cfg.WeaponField.Valid() {
		return fmt.Errorf("--weapon-field must be %q or %q", model.WeaponSubtype, model.WeaponType)
	}
	if cfg.GroupPercentage < 1 || cfg.GroupPercentage > 100 {
		return fmt.Errorf("--group-percentage must be between 1 and 100")
	}
	if err := config.ValidateYear("--start", cfg.StartYear); err != nil {
		return err
	}
	if err := config.ValidateYear("--end", cfg.EndYear); err != nil {
		return err
	}
	return nil
}

// loadRecords reads the CSV given on the command line or falls back to the imported snapshot.
func (s *session) loadRecords(ctx context.Context) ([]model.Incident, error) {
	if s.cfg.CSVPath != "" {
		records, summary, err := dataset.LoadCSV(s.cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		logSummary(s.logger, s.cfg.CSVPath, summary)
		return records, nil
	}
	records, err := s.store.LoadIncidents(ctx)
	if errors.Is(err, store.ErrEmptySnapshot) {
		return nil, fmt.Errorf("no dataset imported; run `gtdash import <file.csv>` or pass --csv")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}
	s.logger.Debug("snapshot loaded", "rows", len(records))
	return records, nil
}

func (s *session) controller(records []model.Incident) *dashboard.Controller {
	policy := selection.RequireCountries
	if s.cfg.AllCountries {
		policy = selection.AllowAllCountries
	}
	return dashboard.New(records,
		dashboard.WithLogger(s.logger),
		dashboard.WithMetrics(s.metrics),
		dashboard.WithPolicy(policy),
		dashboard.WithWeaponField(s.cfg.WeaponField),
		dashboard.WithGroupPercentage(s.cfg.GroupPercentage),
		dashboard.WithSelection(selection.NewState(s.cfg.Countries, s.cfg.StartYear, s.cfg.EndYear)),
	)
}

func logSummary(logger *slog.Logger, source string, summary dataset.Summary) {
	logger.Info("dataset loaded",
		"source", source,
		"rows", summary.Rows,
		"missing_success", summary.MissingSuccess,
		"invalid_year", summary.InvalidYear,
		"invalid_month", summary.InvalidMonth,
		"unknown_perpetrators", summary.UnknownPerps,
	)
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}
	theme, err := s.store.Theme(ctx)
	if err != nil {
		s.logger.Warn("failed to read theme", "err", err)
		theme = store.ThemeDark
	}

	ui := dashui.NewModel(s.controller(records), s.store, theme, s.logger)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gtdash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# csv = "/path/to/globalterrorism.csv"  # Read this CSV instead of the imported snapshot
# countries = ["Iraq", "Afghanistan"]    # Initial country selection
# start-year = 2010                      # Alone: exactly that year
# end-year = 2015                        # Alone: exactly that year
# weapon-field = %q                 # "subtype" or "type"
# group-percentage = %d                  # Share of groups kept in the full tree (1-100)
# all-countries = false                  # Empty selection means all countries

[logging]
# level = %q                         # debug, info, warn, error
# json = false                           # JSON log lines
# file = "/path/to/gtdash.log"           # Dashboard log file
`,
		defaultWeaponField,
		stats.DefaultGroupPercentage,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
