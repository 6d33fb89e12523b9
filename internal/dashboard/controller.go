// Package dashboard owns the selection and re-derives every view when it changes.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/gtdash/internal/logging"
	"github.com/verte-zerg/gtdash/internal/metrics"
	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/stats"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
	"github.com/verte-zerg/gtdash/internal/zoom"
)

// Controller is the single owner of the selection. It is not safe for concurrent use.
type Controller struct {
	records []model.Incident
	state   selection.State
	opts    stats.Options
	logger  *slog.Logger
	metrics *metrics.Recorder

	views viewmodel.Views
	zoom  zoom.State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for data-quality warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the recorder updated on each derivation.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = rec
	}
}

// WithPolicy sets what an empty country set means.
func WithPolicy(p selection.Policy) Option {
	return func(c *Controller) {
		c.opts.Policy = p
	}
}

// WithWeaponField sets the initial weapon grouping column.
func WithWeaponField(f model.WeaponField) Option {
	return func(c *Controller) {
		if f.Valid() {
			c.opts.WeaponField = f
		}
	}
}

// WithGroupPercentage sets the initial share of groups kept in the hierarchy.
func WithGroupPercentage(p int) Option {
	return func(c *Controller) {
		c.opts.GroupPercentage = stats.ClampPercentage(p)
	}
}

// WithSelection sets the initial selection.
func WithSelection(s selection.State) Option {
	return func(c *Controller) {
		c.state = s
	}
}

// New builds a Controller over an immutable record set and derives the initial views.
func New(records []model.Incident, opts ...Option) *Controller {
	c := &Controller{
		records: records,
		opts:    stats.DefaultOptions(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.refresh()
	return c
}

// OnSelectionChanged replaces the selection and returns the fresh views.
func (c *Controller) OnSelectionChanged(countries any, startYear, endYear *int) viewmodel.Views {
	c.state.Set(countries, startYear, endYear)
	return c.refresh()
}

// SetYears replaces the year bounds and keeps the selected countries.
func (c *Controller) SetYears(startYear, endYear *int) viewmodel.Views {
	c.state.SetYears(startYear, endYear)
	return c.refresh()
}

// ToggleCountry adds or removes one country, as a map click does.
func (c *Controller) ToggleCountry(country string) viewmodel.Views {
	c.state.Toggle(country)
	return c.refresh()
}

// ClearSelection removes every selected country.
func (c *Controller) ClearSelection() viewmodel.Views {
	c.state.ClearCountries()
	return c.refresh()
}

// SetGroupPercentage sets the share of groups kept, clamped to 1..100.
func (c *Controller) SetGroupPercentage(p int) viewmodel.Views {
	c.opts.GroupPercentage = stats.ClampPercentage(p)
	return c.refresh()
}

// SetWeaponField switches the weapon grouping column. Invalid fields are ignored.
func (c *Controller) SetWeaponField(f model.WeaponField) viewmodel.Views {
	if !f.Valid() || f == c.opts.WeaponField {
		return c.views
	}
	c.opts.WeaponField = f
	return c.refresh()
}

// ToggleWeaponField switches between subtype and type.
func (c *Controller) ToggleWeaponField() viewmodel.Views {
	if c.opts.WeaponField == model.WeaponType {
		return c.SetWeaponField(model.WeaponSubtype)
	}
	return c.SetWeaponField(model.WeaponType)
}

// Views returns the views of the last derivation.
func (c *Controller) Views() viewmodel.Views {
	return c.views
}

// State returns a copy of the current selection.
func (c *Controller) State() selection.State {
	return c.state
}

// Options returns the current aggregation settings.
func (c *Controller) Options() stats.Options {
	return c.opts
}

// Records returns the loaded record set.
func (c *Controller) Records() []model.Incident {
	return c.records
}

// GroupControlVisible reports whether the group percentage control applies:
// only the full tree with at least five attributable groups uses it.
func (c *Controller) GroupControlVisible() bool {
	tree, ok := c.views.Groups.(viewmodel.HierarchyTree)
	return ok && tree.Shape == viewmodel.TreeFull && tree.Groups >= stats.MinGroupsForPercentage
}

// Zoom returns the hierarchy zoom state.
func (c *Controller) Zoom() zoom.State {
	return c.zoom
}

// ZoomIn focuses a hierarchy node.
func (c *Controller) ZoomIn(node *viewmodel.Node) zoom.State {
	c.zoom = zoom.ZoomIn(c.zoom, node)
	return c.zoom
}

// ZoomOut returns to the previous hierarchy focus.
func (c *Controller) ZoomOut() zoom.State {
	c.zoom = zoom.ZoomOut(c.zoom)
	return c.zoom
}

// ResetZoom refocuses the hierarchy root.
func (c *Controller) ResetZoom() zoom.State {
	c.zoom = zoom.Reset(c.zoom)
	return c.zoom
}

func (c *Controller) refresh() viewmodel.Views {
	started := time.Now()
	timeline := stats.Timeline(c.records, c.state, c.opts)
	weapons := stats.Weapons(c.records, c.state, c.opts)
	groups := stats.Hierarchy(c.records, c.state, c.opts)

	c.observe(viewmodel.ViewTimeline, timeline)
	c.observe(viewmodel.ViewWeapons, weapons)
	c.observe(viewmodel.ViewGroups, groups)
	c.metrics.ObserveDerivation(time.Since(started))

	c.views = viewmodel.Views{
		Timeline: timeline.View,
		Weapons:  weapons.View,
		Groups:   groups.View,
	}
	if tree, ok := groups.View.(viewmodel.HierarchyTree); ok {
		c.zoom = zoom.Root(tree.Root)
	} else {
		c.zoom = zoom.Root(nil)
	}
	c.logger.Debug("views derived",
		"countries", c.state.Countries(),
		"years", c.state.Years().String(),
		"timeline", timeline.View.Kind(),
		"weapons", weapons.View.Kind(),
		"groups", groups.View.Kind(),
	)
	return c.views
}

func (c *Controller) observe(view string, res stats.Result) {
	c.metrics.ObserveView(view, string(res.View.Kind()))
	q := res.Quality
	if q.Empty() {
		return
	}
	c.metrics.ObserveAnomalies(view, metrics.AnomalyMissingSuccess, q.MissingSuccess)
	c.metrics.ObserveAnomalies(view, metrics.AnomalyInvalidYear, q.InvalidYear)
	c.metrics.ObserveAnomalies(view, metrics.AnomalyInvalidMonth, q.InvalidMonth)
	c.logger.Warn("data quality",
		"view", view,
		"missing_success", q.MissingSuccess,
		"invalid_year", q.InvalidYear,
		"invalid_month", q.InvalidMonth,
	)
	if q.MissingSuccess > 0 && c.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, rec := range c.state.Apply(c.records) {
			if !rec.Success.Known() {
				c.logger.Debug("missing success", "view", view, "eventid", rec.EventID)
			}
		}
	}
}
