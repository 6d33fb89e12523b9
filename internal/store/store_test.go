package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "gtdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestEmptySnapshot(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := st.LoadIncidents(ctx)
	require.ErrorIs(t, err, ErrEmptySnapshot)
	_, err = st.Snapshot(ctx)
	require.ErrorIs(t, err, ErrEmptySnapshot)

	n, err := st.CountIncidents(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReplaceAndLoadIncidents(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	first := []model.Incident{
		{EventID: "z", Country: "Spain", Year: 1990, Month: 4, Success: model.SuccessSucceeded, Perpetrators: 3, Kills: 2},
		{EventID: "a", Country: "Peru", Year: 1991, Success: model.SuccessUnknown, Perpetrators: model.UnknownPerpetrators},
		{EventID: "m", Country: "Peru", Year: 1992, Month: 12, Success: model.SuccessFailed, GroupName: "Shining Path",
			WeaponType: "Firearms", WeaponSubtype: "Rifle", TargetType: "Police", Region: "South America", Wounded: 5},
	}
	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, st.ReplaceIncidents(ctx, "first.csv", first))

	got, err := st.LoadIncidents(ctx)
	require.NoError(t, err)
	require.Equal(t, first, got)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "first.csv", snap.Source)
	require.Equal(t, 3, snap.Rows)
	require.True(t, snap.ImportedAt.After(before))

	second := []model.Incident{{EventID: "b", Country: "Chile", Year: 2000, Success: model.SuccessSucceeded}}
	require.NoError(t, st.ReplaceIncidents(ctx, "second.csv", second))
	n, err := st.CountIncidents(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	snap, err = st.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "second.csv", snap.Source)
}

func TestThemePersistence(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	theme, err := st.Theme(ctx)
	require.NoError(t, err)
	require.Equal(t, ThemeDark, theme)

	require.NoError(t, st.SetTheme(ctx, "Light"))
	theme, err = st.Theme(ctx)
	require.NoError(t, err)
	require.Equal(t, ThemeLight, theme)

	require.Error(t, st.SetTheme(ctx, "sepia"))

	_, err = st.db.ExecContext(ctx, `UPDATE settings SET value = 'sepia' WHERE key = ?`, themeKey)
	require.NoError(t, err)
	theme, err = st.Theme(ctx)
	require.NoError(t, err)
	require.Equal(t, ThemeDark, theme)
}

func TestToggleTheme(t *testing.T) {
	require.Equal(t, ThemeLight, ToggleTheme(ThemeDark))
	require.Equal(t, ThemeDark, ToggleTheme(ThemeLight))
}
