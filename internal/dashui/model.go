// Package dashui provides the Bubble Tea dashboard interface.
package dashui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/gtdash/internal/config"
	"github.com/verte-zerg/gtdash/internal/dashboard"
	"github.com/verte-zerg/gtdash/internal/logging"
	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/stats"
	"github.com/verte-zerg/gtdash/internal/store"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const (
	tabTimeline = iota
	tabWeapons
	tabGroups
	tabCountries
)

const (
	plotHeight      = 10
	percentageStep  = 5
	groupPreviewMax = 2
	defaultWidth    = 80
)

// ThemeSaver persists the theme preference.
type ThemeSaver interface {
	SetTheme(ctx context.Context, theme string) error
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	ctrl   *dashboard.Controller
	themes ThemeSaver
	logger *slog.Logger

	theme  string
	styles styles

	totals []model.CountryTotal

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	countryTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string

	groupCursor int
	errMsg      string
}

// NewModel constructs the dashboard UI over a controller. themes may be nil.
func NewModel(ctrl *dashboard.Controller, themes ThemeSaver, theme string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = logging.Discard()
	}
	if parsed, ok := store.ParseTheme(theme); ok {
		theme = parsed
	} else {
		theme = store.ThemeDark
	}
	m := &Model{
		ctrl:   ctrl,
		themes: themes,
		logger: logger,
		theme:  theme,
		styles: newStyles(theme),
		totals: stats.CountryTotals(ctrl.Records(), stats.MetricAttacks),
		tabs:   []string{"Timeline", "Weapons", "Groups", "Countries"},
	}
	m.initInputs()
	m.initViewports()
	m.countryTable = table.New(
		table.WithColumns(countryColumns()),
		table.WithHeight(1),
	)
	m.countryTable.SetStyles(m.tableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startForm()
		case "w":
			m.ctrl.ToggleWeaponField()
			m.refresh()
			return m, nil
		case "=", "+":
			m.changePercentage(percentageStep)
			return m, nil
		case "-":
			m.changePercentage(-percentageStep)
			return m, nil
		case "x":
			m.ctrl.ClearSelection()
			m.refresh()
			return m, nil
		case "t":
			m.toggleTheme()
			return m, nil
		}
		switch m.activeTab {
		case tabGroups:
			if handled := m.updateGroups(msg); handled {
				return m, nil
			}
		case tabCountries:
			return m.updateCountries(msg)
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Theme returns the active theme name.
func (m *Model) Theme() string {
	return m.theme
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.formInputs = []textinput.Model{
		newFormInput("Countries: "),
		newFormInput("Start year: "),
		newFormInput("End year: "),
	}
	m.formInputs[0].Placeholder = "Iraq, Peru"
	m.setInputsFromState()
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromState() {
	state := m.ctrl.State()
	m.formInputs[0].SetValue(strings.Join(state.Countries(), ", "))
	years := state.Years()
	m.formInputs[1].SetValue(optionalYear(years.Start))
	m.formInputs[2].SetValue(optionalYear(years.End))
}

func optionalYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(m.styles.activeNav.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.countryTable.SetWidth(m.width)
	m.countryTable.SetHeight(max(1, bodyHeight-1))
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabCountries {
		m.countryTable.Focus()
	} else {
		m.countryTable.Blur()
	}
}

// refresh re-renders every tab from the controller's current views.
func (m *Model) refresh() {
	m.groupCursor = 0
	m.countryTable.SetRows(m.countryRows())
	m.renderTabContents()
}

func (m *Model) changePercentage(delta int) {
	if !m.ctrl.GroupControlVisible() {
		m.errMsg = fmt.Sprintf("Group share applies to the full tree with at least %d groups.", stats.MinGroupsForPercentage)
		return
	}
	m.errMsg = ""
	m.ctrl.SetGroupPercentage(m.ctrl.Options().GroupPercentage + delta)
	m.refresh()
}

func (m *Model) toggleTheme() {
	next := store.ToggleTheme(m.theme)
	if m.themes != nil {
		if err := m.themes.SetTheme(context.Background(), next); err != nil {
			m.logger.Error("save theme", "theme", next, "err", err)
			m.errMsg = err.Error()
			return
		}
	}
	m.errMsg = ""
	m.theme = next
	m.styles = newStyles(next)
	m.countryTable.SetStyles(m.tableStyles())
	m.renderTabContents()
}

func (m *Model) updateGroups(msg tea.KeyMsg) bool {
	focus := m.ctrl.Zoom().Focus()
	switch msg.String() {
	case "up", "k":
		if m.groupCursor > 0 {
			m.groupCursor--
			m.renderTabContents()
		}
		return true
	case "down", "j":
		if focus != nil && m.groupCursor < len(focus.Children)-1 {
			m.groupCursor++
			m.renderTabContents()
		}
		return true
	case "enter":
		if focus == nil || m.groupCursor >= len(focus.Children) {
			return true
		}
		before := m.ctrl.Zoom().Depth()
		if m.ctrl.ZoomIn(focus.Children[m.groupCursor]).Depth() != before {
			m.groupCursor = 0
		}
		m.renderTabContents()
		return true
	case "backspace":
		m.ctrl.ZoomOut()
		m.groupCursor = 0
		m.renderTabContents()
		return true
	case "esc":
		m.ctrl.ResetZoom()
		m.groupCursor = 0
		m.renderTabContents()
		return true
	}
	return false
}

func (m *Model) updateCountries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		row := m.countryTable.SelectedRow()
		if len(row) > 1 {
			cur := m.countryTable.Cursor()
			m.ctrl.ToggleCountry(row[1])
			m.refresh()
			m.countryTable.SetCursor(cur)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.countryTable, cmd = m.countryTable.Update(msg)
	return m, cmd
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setInputsFromState()
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	countries := selection.SplitList(m.formInputs[0].Value())
	start, err := parseYear("start year", m.formInputs[1].Value())
	if err != nil {
		return err
	}
	end, err := parseYear("end year", m.formInputs[2].Value())
	if err != nil {
		return err
	}
	m.ctrl.OnSelectionChanged(countries, start, end)
	return nil
}

func parseYear(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s (use YYYY)", name)
	}
	if err := config.ValidateYear(name, &y); err != nil {
		return nil, err
	}
	return &y, nil
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.activeNav.Render(tab))
		} else {
			parts = append(parts, m.styles.inactiveNav.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSelectionSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSelectionSummary() string {
	state := m.ctrl.State()
	countries := "none"
	if state.HasCountries() {
		countries = strings.Join(state.Countries(), ", ")
	}
	opts := m.ctrl.Options()
	summary := fmt.Sprintf("Selection: countries=%s  years=%s  weapons=%s  groups=%d%%  theme=%s",
		countries, state.Years(), opts.WeaponField, opts.GroupPercentage, m.theme)
	return m.styles.header.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	base := "Nav: left/right  Select: /  Weapons: w  Clear: x  Theme: t  Quit: q"
	switch m.activeTab {
	case tabGroups:
		help := "Nav: left/right  Move: up/down  Zoom: enter"
		if m.ctrl.Zoom().CanGoBack() {
			help += "  Back: backspace  Root: esc"
		}
		if m.ctrl.GroupControlVisible() {
			help += "  Share: -/="
		}
		return m.styles.header.Render(help + "  Select: /  Quit: q")
	case tabCountries:
		return m.styles.header.Render("Nav: left/right  Move: up/down  Toggle: enter  Select: /  Clear: x  Quit: q")
	}
	return m.styles.header.Render(base)
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return m.styles.header.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + m.styles.err.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderForm() string {
	lines := []string{"Selection (enter to apply, esc to cancel)"}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, m.styles.header.Render("A single year selects exactly that year; two years select an inclusive range."))
	if m.formError != "" {
		lines = append(lines, m.styles.err.Render(m.formError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		return fitLines(m.renderForm(), m.width, height)
	}
	if m.activeTab == tabCountries {
		if len(m.totals) == 0 {
			return fitLines("No incidents loaded.", m.width, height)
		}
		return fitLines(m.countryTable.View(), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	views := m.ctrl.Views()
	m.viewports[tabTimeline].SetContent(m.renderView(views.Timeline, width))
	m.viewports[tabWeapons].SetContent(m.renderView(views.Weapons, width))
	m.viewports[tabGroups].SetContent(m.renderGroups(views.Groups, width))
}

func (m *Model) renderView(v viewmodel.View, width int) string {
	switch v := v.(type) {
	case viewmodel.NeedsSelection:
		return wrapText(v.Hint, width)
	case viewmodel.NoData:
		return wrapText(v.Reason, width)
	}
	var buf bytes.Buffer
	if err := stats.RenderView(&buf, v, stats.RenderOptions{Width: width, Height: plotHeight, Color: true}); err != nil {
		m.logger.Error("render view", "kind", v.Kind(), "err", err)
		return fmt.Sprintf("Failed to render view: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderGroups(v viewmodel.View, width int) string {
	tree, ok := v.(viewmodel.HierarchyTree)
	if !ok {
		return m.renderView(v, width)
	}
	z := m.ctrl.Zoom()
	focus := z.Focus()
	lines := []string{
		m.styles.header.Render(truncateLine(fmt.Sprintf("%s tree, %s groups  Path: %s",
			tree.Shape, humanize.Comma(int64(tree.Groups)), strings.Join(z.Path(), " > ")), width)),
	}
	if focus == nil || focus.IsLeaf() {
		return strings.Join(append(lines, "Nothing to show."), "\n")
	}
	for i, child := range focus.Children {
		line := fmt.Sprintf("%s (%s)", child.Name, humanize.Comma(int64(child.Total())))
		if i == m.groupCursor {
			lines = append(lines, m.styles.cursor.Render("> "+truncateLine(line, width-2)))
		} else {
			lines = append(lines, "  "+truncateLine(line, width-2))
		}
	}
	if m.groupCursor < len(focus.Children) {
		if sel := focus.Children[m.groupCursor]; !sel.IsLeaf() {
			var buf bytes.Buffer
			if err := stats.RenderTree(&buf, sel, groupPreviewMax); err == nil {
				lines = append(lines, "", m.styles.header.Render(sel.Name), strings.TrimRight(buf.String(), "\n"))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func countryColumns() []table.Column {
	return []table.Column{
		{Title: "Sel", Width: 3},
		{Title: "Country", Width: 32},
		{Title: "Attacks", Width: 9},
		{Title: "Kills", Width: 9},
	}
}

func (m *Model) countryRows() []table.Row {
	state := m.ctrl.State()
	rows := make([]table.Row, 0, len(m.totals))
	for _, ct := range m.totals {
		mark := ""
		if state.Contains(ct.Country) {
			mark = "*"
		}
		rows = append(rows, table.Row{
			mark,
			ct.Country,
			humanize.Comma(int64(ct.Attacks)),
			humanize.Comma(int64(ct.Kills)),
		})
	}
	return rows
}

func (m *Model) tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		Foreground(m.styles.header.GetForeground()).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	s.Cell = s.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	s.Selected = m.styles.selected
	return s
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
