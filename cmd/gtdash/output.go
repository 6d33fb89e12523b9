package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/stats"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	treeTableDepth = 2
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func validFormat(format string) bool {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

type querySelection struct {
	Countries       []string          `json:"countries" yaml:"countries"`
	Years           string            `json:"years" yaml:"years"`
	Policy          string            `json:"policy" yaml:"policy"`
	WeaponField     model.WeaponField `json:"weapon_field" yaml:"weapon_field"`
	GroupPercentage int               `json:"group_percentage" yaml:"group_percentage"`
}

type queryResult struct {
	Selection querySelection     `json:"selection" yaml:"selection"`
	Timeline  viewmodel.Envelope `json:"timeline" yaml:"timeline"`
	Weapons   viewmodel.Envelope `json:"weapons" yaml:"weapons"`
	Groups    viewmodel.Envelope `json:"groups" yaml:"groups"`
}

func newQueryResult(state selection.State, opts stats.Options, views viewmodel.Views) queryResult {
	return queryResult{
		Selection: querySelection{
			Countries:       state.Countries(),
			Years:           state.Years().String(),
			Policy:          opts.Policy.String(),
			WeaponField:     opts.WeaponField,
			GroupPercentage: opts.GroupPercentage,
		},
		Timeline: viewmodel.Wrap(views.Timeline),
		Weapons:  viewmodel.Wrap(views.Weapons),
		Groups:   viewmodel.Wrap(views.Groups),
	}
}

func writeQuery(w io.Writer, format string, res queryResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case formatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	s := res.Selection
	countries := "none"
	if len(s.Countries) > 0 {
		countries = strings.Join(s.Countries, ", ")
	}
	header := fmt.Sprintf("Selection: countries=%s  years=%s  weapons=%s  groups=%d%%",
		countries, s.Years, s.WeaponField, s.GroupPercentage)
	sections := []string{header}
	for _, env := range []viewmodel.Envelope{res.Timeline, res.Weapons, res.Groups} {
		sections = append(sections, string(env.Kind)+":\n"+viewTable(env.Model).Render())
	}
	_, err := fmt.Fprintln(w, strings.Join(sections, "\n\n"))
	return err
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	return tbl
}

func countriesTable(totals []model.CountryTotal) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Country", "Attacks", "Kills"})
	for i, ct := range totals {
		tbl.AppendRow(table.Row{i + 1, ct.Country, humanize.Comma(int64(ct.Attacks)), humanize.Comma(int64(ct.Kills))})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d countries", len(totals))})
	return tbl.Render()
}

// viewTable flattens a view-model into rows for terminal output.
func viewTable(v viewmodel.View) table.Writer {
	tbl := newTable()
	switch m := v.(type) {
	case viewmodel.NeedsSelection:
		tbl.AppendRow(table.Row{m.Hint})
	case viewmodel.NoData:
		tbl.AppendRow(table.Row{m.Reason})
	case viewmodel.TimelineSeries:
		header := table.Row{"Year"}
		for _, s := range m.Series {
			header = append(header, s.Country)
		}
		tbl.AppendHeader(header)
		for y := m.StartYear; y <= m.EndYear; y++ {
			row := table.Row{strconv.Itoa(y)}
			for _, s := range m.Series {
				row = append(row, s.Points[y-m.StartYear].Count)
			}
			tbl.AppendRow(row)
		}
	case viewmodel.MonthlyHeat:
		tbl.AppendHeader(table.Row{"Month", m.Country + " (" + m.Years + ")"})
		for i, c := range m.Counts {
			tbl.AppendRow(table.Row{monthNames[i], c})
		}
	case viewmodel.GroupedBarByMonth:
		header := table.Row{"Month"}
		for _, g := range m.Groups {
			header = append(header, g.Country)
		}
		tbl.AppendHeader(header)
		for i := range monthNames {
			row := table.Row{monthNames[i]}
			for _, g := range m.Groups {
				row = append(row, g.Counts[i])
			}
			tbl.AppendRow(row)
		}
	case viewmodel.PieModel:
		tbl.AppendHeader(table.Row{"Weapon", "Attacks", "Kills", "Success"})
		for _, s := range m.Slices {
			tbl.AppendRow(table.Row{s.Label, humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.Kills)), stats.FormatRate(s)})
		}
	case viewmodel.StackedBarModel:
		labels := append([]string(nil), m.Categories...)
		if !slices.Contains(labels, stats.OtherLabel) {
			labels = append(labels, stats.OtherLabel)
		}
		header := table.Row{"Country", "Total"}
		for _, l := range labels {
			header = append(header, l)
		}
		tbl.AppendHeader(header)
		for _, b := range m.Bars {
			row := table.Row{b.Country, humanize.Comma(int64(b.Total))}
			for _, l := range labels {
				row = append(row, segmentCount(b, l))
			}
			tbl.AppendRow(row)
		}
	case viewmodel.HierarchyTree:
		tbl.AppendHeader(table.Row{"Node", "Successful attacks"})
		m.Root.Walk(func(n *viewmodel.Node, depth int) bool {
			if depth > 0 {
				tbl.AppendRow(table.Row{strings.Repeat("  ", depth-1) + n.Name, humanize.Comma(int64(n.Total()))})
			}
			return depth < treeTableDepth
		})
	}
	return tbl
}

func segmentCount(b viewmodel.CountryStack, label string) int {
	for _, s := range b.Segments {
		if s.Label == label {
			return s.Count
		}
	}
	return 0
}

func selectionLabel(state selection.State) string {
	countries := "all countries"
	if state.HasCountries() {
		countries = strings.Join(state.Countries(), ", ")
	}
	return countries + ", " + state.Years().String()
}
