// Package generator builds synthetic incident datasets for demos and tests.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/gtdash/internal/model"
)

type weighted struct {
	value  string
	weight float64
}

type countryProfile struct {
	name   string
	region string
	weight float64
	groups []weighted
}

var countries = []countryProfile{
	{name: "Iraq", region: "Middle East & North Africa", weight: 9, groups: []weighted{
		{"Islamic State of Iraq and the Levant (ISIL)", 6}, {"Al-Qaida in Iraq", 3}, {"Unknown", 8},
	}},
	{name: "Pakistan", region: "South Asia", weight: 5, groups: []weighted{
		{"Tehrik-i-Taliban Pakistan (TTP)", 4}, {"Baloch Republican Army (BRA)", 2}, {"Lashkar-e-Jhangvi", 1}, {"Unknown", 6},
	}},
	{name: "Colombia", region: "South America", weight: 3, groups: []weighted{
		{"Revolutionary Armed Forces of Colombia (FARC)", 5}, {"National Liberation Army of Colombia (ELN)", 3}, {"Unknown", 2},
	}},
	{name: "United Kingdom", region: "Western Europe", weight: 2.5, groups: []weighted{
		{"Irish Republican Army (IRA)", 6}, {"Ulster Volunteer Force (UVF)", 2}, {"Real Irish Republican Army (RIRA)", 1}, {"Unknown", 2},
	}},
	{name: "Spain", region: "Western Europe", weight: 2, groups: []weighted{
		{"Basque Fatherland and Freedom (ETA)", 8}, {"Grupos de Resistencia Antifascista Primero de Octubre", 1}, {"Unknown", 1},
	}},
	{name: "France", region: "Western Europe", weight: 1.5, groups: []weighted{
		{"Corsican National Liberation Front (FLNC)", 5}, {"Action Directe", 1}, {"Unknown", 3},
	}},
	{name: "United States of America", region: "North America", weight: 1.5, groups: []weighted{
		{"Anti-Abortion extremists", 2}, {"Earth Liberation Front (ELF)", 1}, {"Black Liberation Army", 1}, {"Unknown", 3},
	}},
	{name: "Peru", region: "South America", weight: 2, groups: []weighted{
		{"Shining Path (SL)", 8}, {"Tupac Amaru Revolutionary Movement (MRTA)", 2}, {"Unknown", 2},
	}},
}

type weaponProfile struct {
	weaponType string
	subtypes   []weighted
	weight     float64
	lethality  int
}

var weapons = []weaponProfile{
	{weaponType: "Explosives", weight: 10, lethality: 4, subtypes: []weighted{
		{"Unknown Explosive Type", 5}, {"Vehicle", 2}, {"Suicide (carried bodily by human being)", 1}, {"Grenade", 1.5}, {"Projectile (rockets, mortars, RPGs, etc.)", 1.5}, {"Pipe Bomb", 0.5},
	}},
	{weaponType: "Firearms", weight: 6, lethality: 2, subtypes: []weighted{
		{"Unknown Gun Type", 4}, {"Automatic or Semi-Automatic Rifle", 3}, {"Handgun", 1}, {"Rifle/Shotgun (non-automatic)", 0.5},
	}},
	{weaponType: "Incendiary", weight: 1.5, lethality: 1, subtypes: []weighted{
		{"Arson/Fire", 3}, {"Molotov Cocktail/Petrol Bomb", 1},
	}},
	{weaponType: "Melee", weight: 0.7, lethality: 1, subtypes: []weighted{
		{"Knife or Other Sharp Object", 2}, {"Blunt Object", 1},
	}},
	{weaponType: "Unknown", weight: 1.5, lethality: 1, subtypes: []weighted{{"", 1}}},
}

var targets = []weighted{
	{"Private Citizens & Property", 8}, {"Military", 5}, {"Police", 4.5}, {"Government (General)", 3.5},
	{"Business", 3}, {"Transportation", 1}, {"Religious Figures/Institutions", 1}, {"Utilities", 1},
}

// Config controls the shape of a generated dataset.
type Config struct {
	Rows      int
	StartYear int
	EndYear   int
	// MissingSuccessPct and MissingMonthPct inject data-quality anomalies (0..1).
	MissingSuccessPct float64
	MissingMonthPct   float64
	SuccessPct        float64
}

// DefaultConfig returns a config close to the proportions of the real dataset.
func DefaultConfig() Config {
	return Config{
		Rows:              5000,
		StartYear:         1970,
		EndYear:           2017,
		MissingSuccessPct: 0.01,
		MissingMonthPct:   0.01,
		SuccessPct:        0.89,
	}
}

// Generator produces randomized incidents.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds cfg.Rows incidents.
func (g *Generator) Generate(cfg Config) []model.Incident {
	if cfg.EndYear < cfg.StartYear {
		cfg.StartYear, cfg.EndYear = cfg.EndYear, cfg.StartYear
	}
	countryWeights := make([]float64, len(countries))
	for i, c := range countries {
		countryWeights[i] = c.weight
	}
	weaponWeights := make([]float64, len(weapons))
	for i, w := range weapons {
		weaponWeights[i] = w.weight
	}

	out := make([]model.Incident, 0, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		country := countries[g.pickIndex(countryWeights)]
		weapon := weapons[g.pickIndex(weaponWeights)]
		year := cfg.StartYear + g.rnd.Intn(cfg.EndYear-cfg.StartYear+1)
		month := 1 + g.rnd.Intn(12)
		if g.rnd.Float64() < cfg.MissingMonthPct {
			month = 0
		}
		rec := model.Incident{
			EventID:       eventID(year, month, i),
			Country:       country.name,
			Region:        country.region,
			Year:          year,
			Month:         month,
			GroupName:     g.pick(country.groups),
			WeaponType:    weapon.weaponType,
			WeaponSubtype: g.pick(weapon.subtypes),
			TargetType:    g.pick(targets),
			Success:       g.success(cfg),
			Perpetrators:  g.perpetrators(),
			Kills:         g.casualties(weapon.lethality),
			Wounded:       g.casualties(weapon.lethality * 2),
		}
		out = append(out, rec)
	}
	return out
}

func (g *Generator) success(cfg Config) model.Success {
	if g.rnd.Float64() < cfg.MissingSuccessPct {
		return model.SuccessUnknown
	}
	if g.rnd.Float64() < cfg.SuccessPct {
		return model.SuccessSucceeded
	}
	return model.SuccessFailed
}

// perpetrators follows the dataset: mostly unknown, otherwise small with a long tail.
func (g *Generator) perpetrators() int {
	r := g.rnd.Float64()
	switch {
	case r < 0.6:
		return model.UnknownPerpetrators
	case r < 0.9:
		return 1 + g.rnd.Intn(5)
	case r < 0.98:
		return 5 + g.rnd.Intn(60)
	default:
		return 50 + g.rnd.Intn(1000)
	}
}

func (g *Generator) casualties(lethality int) int {
	if lethality <= 0 || g.rnd.Float64() < 0.5 {
		return 0
	}
	return int(g.rnd.ExpFloat64() * float64(lethality))
}

func (g *Generator) pick(items []weighted) string {
	weights := make([]float64, len(items))
	for i, it := range items {
		weights[i] = it.weight
	}
	return items[g.pickIndex(weights)].value
}

func (g *Generator) pickIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}

func eventID(year, month, seq int) string {
	return fmt.Sprintf("%04d%02d%06d", year, month, seq)
}

// Countries returns the country names the generator draws from.
func Countries() []string {
	out := make([]string, len(countries))
	for i, c := range countries {
		out[i] = c.name
	}
	return out
}
