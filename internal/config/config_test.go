package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Nil(t, cfg.Dashboard.CSV)
	require.Empty(t, cfg.Dashboard.Countries)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[dashboard]
csv = "/data/gtd.csv"
countries = ["France", "Spain"]
start-year = 2010
weapon-field = "type"
group-percentage = 25
all-countries = true

[logging]
level = "debug"
json = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/data/gtd.csv", *cfg.Dashboard.CSV)
	require.Equal(t, []string{"France", "Spain"}, cfg.Dashboard.Countries)
	require.Equal(t, 2010, *cfg.Dashboard.StartYear)
	require.Nil(t, cfg.Dashboard.EndYear)
	require.Equal(t, "type", *cfg.Dashboard.WeaponField)
	require.Equal(t, 25, *cfg.Dashboard.GroupPercentage)
	require.True(t, *cfg.Dashboard.AllCountries)
	require.Equal(t, "debug", *cfg.Logging.Level)
	require.True(t, *cfg.Logging.JSON)
}

func TestLoadConfigRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"percentage": "[dashboard]\ngroup-percentage = 0\n",
		"weapon":     "[dashboard]\nweapon-field = \"caliber\"\n",
		"year":       "[dashboard]\nend-year = 1800\n",
		"level":      "[logging]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	require.Equal(t, filepath.Join("/cfg", "gtdash", "config.toml"), DefaultConfigPath())
	require.Equal(t, filepath.Join("/data", "gtdash", "gtdash.db"), DefaultDBPath())
	require.Equal(t, filepath.Join("/data", "gtdash", "gtdash.log"), DefaultLogPath())
}

func TestDefaultPathsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	require.Equal(t, filepath.Join(home, ".config", "gtdash", "config.toml"), DefaultConfigPath())
	require.Equal(t, filepath.Join(home, ".local", "share", "gtdash", "gtdash.db"), DefaultDBPath())
}
