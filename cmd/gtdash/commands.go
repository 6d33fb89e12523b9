package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gtdash/internal/dataset"
	"github.com/verte-zerg/gtdash/internal/generator"
	"github.com/verte-zerg/gtdash/internal/htmlreport"
	"github.com/verte-zerg/gtdash/internal/stats"
	"github.com/verte-zerg/gtdash/internal/store"
)

const (
	defaultExportPath = "gtdash.html"
	defaultSamplePath = "sample.csv"
	defaultCountryTop = 20
)

var (
	countriesMetric string
	countriesLimit  int

	queryFormat string

	exportOut   string
	exportTitle string

	sampleOut   string
	sampleRows  int
	sampleSeed  int64
	sampleStart int
	sampleEnd   int
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a CSV dataset into the local snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	path := args[0]
	records, summary, err := dataset.LoadCSV(path)
	if err != nil {
		return err
	}
	logSummary(s.logger, path, summary)
	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	if err := s.store.ReplaceIncidents(context.Background(), source, records); err != nil {
		return fmt.Errorf("failed to store incidents: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s incidents from %s\n", humanize.Comma(int64(len(records))), path)
	return err
}

func newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries by attacks or kills",
		Args:  cobra.NoArgs,
		RunE:  runCountriesCmd,
	}
	cmd.Flags().StringVar(&countriesMetric, "metric", string(stats.MetricAttacks), "ranking metric (attacks or kills)")
	cmd.Flags().IntVar(&countriesLimit, "limit", defaultCountryTop, "number of countries to show (0 for all)")
	return cmd
}

func runCountriesCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.loadRecords(context.Background())
	if err != nil {
		return err
	}
	metric, ok := stats.ParseMetric(countriesMetric)
	if !ok {
		s.logger.Warn("unknown metric, using attacks", "metric", countriesMetric)
	}
	totals := stats.CountryTotals(records, metric)
	if countriesLimit > 0 && len(totals) > countriesLimit {
		totals = totals[:countriesLimit]
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), countriesTable(totals))
	return err
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the three views for a selection",
		Args:  cobra.NoArgs,
		RunE:  runQueryCmd,
	}
	cmd.Flags().StringVar(&queryFormat, "format", formatTable, "output format (table, json or yaml)")
	return cmd
}

func runQueryCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(queryFormat))
	if !validFormat(format) {
		return fmt.Errorf("--format must be %s, %s or %s", formatTable, formatJSON, formatYAML)
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.loadRecords(context.Background())
	if err != nil {
		return err
	}
	ctrl := s.controller(records)
	return writeQuery(cmd.OutOrStdout(), format, newQueryResult(ctrl.State(), ctrl.Options(), ctrl.Views()))
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the views for a selection into an HTML page",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", defaultExportPath, "output HTML file")
	cmd.Flags().StringVar(&exportTitle, "title", "", "page title")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, false)
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
	ctrl := s.controller(records)
	title := exportTitle
	if title == "" {
		title = "gtdash: " + selectionLabel(ctrl.State())
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	if err := htmlreport.Render(f, ctrl.Views(), htmlreport.Options{Title: title, Theme: theme}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	logErrf("Wrote %s\n", exportOut)
	return nil
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the persisted theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{store.ThemeDark, store.ThemeLight, "toggle"},
		RunE:      runThemeCmd,
	}
}

func runThemeCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	current, err := s.store.Theme(ctx)
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}
	next := current
	if len(args) == 1 {
		next = strings.ToLower(strings.TrimSpace(args[0]))
		if next == "toggle" {
			next = store.ToggleTheme(current)
		}
		if err := s.store.SetTheme(ctx, next); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), next)
	return err
}

func newSampleCmd() *cobra.Command {
	defaults := generator.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic dataset in the CSV layout",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleOut, "out", defaultSamplePath, "output CSV file")
	cmd.Flags().IntVar(&sampleRows, "rows", defaults.Rows, "number of incidents")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().IntVar(&sampleStart, "from", defaults.StartYear, "first year")
	cmd.Flags().IntVar(&sampleEnd, "to", defaults.EndYear, "last year")
	return cmd
}

func runSampleCmd(_ *cobra.Command, _ []string) error {
	if sampleRows <= 0 {
		return fmt.Errorf("--rows must be greater than 0")
	}
	cfg := generator.DefaultConfig()
	cfg.Rows = sampleRows
	cfg.StartYear = sampleStart
	cfg.EndYear = sampleEnd

	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	records := gen.Generate(cfg)

	if err := os.MkdirAll(filepath.Dir(sampleOut), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(sampleOut), "sample-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := dataset.Write(tmpFile, records); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close sample: %w", err)
	}
	if err := os.Rename(tmpPath, sampleOut); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	logErrln("Wrote", humanize.Comma(int64(len(records))), "incidents to", sampleOut)
	return nil
}
