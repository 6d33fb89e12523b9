package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/model"
)

func TestCountryTotals(t *testing.T) {
	records := []model.Incident{
		{Country: "A", Kills: 1},
		{Country: "A", Kills: 1},
		{Country: "B", Kills: 10},
		{Country: "C", Kills: 0},
		{Country: "C", Kills: -3},
		{Country: ""},
	}

	byAttacks := CountryTotals(records, MetricAttacks)
	require.Equal(t, []model.CountryTotal{
		{Country: "A", Attacks: 2, Kills: 2},
		{Country: "C", Attacks: 2, Kills: 0},
		{Country: "B", Attacks: 1, Kills: 10},
	}, byAttacks)

	byKills := CountryTotals(records, MetricKills)
	require.Equal(t, "B", byKills[0].Country)
	require.Equal(t, "A", byKills[1].Country)
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("Kills")
	require.True(t, ok)
	require.Equal(t, MetricKills, m)

	m, ok = ParseMetric("wounded")
	require.False(t, ok)
	require.Equal(t, MetricAttacks, m)
}

func TestTopCountries(t *testing.T) {
	records := []model.Incident{{Country: "B"}, {Country: "A"}, {Country: "B"}, {Country: "C"}}
	require.Equal(t, []string{"B", "A"}, TopCountries(records, 2))
	require.Nil(t, TopCountries(records, 0))
}
