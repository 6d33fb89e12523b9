// Package dataset reads and writes the cleaned incident CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/gtdash/internal/model"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Column names of the cleaned dataset.
const (
	ColEventID       = "eventid"
	ColYear          = "iyear"
	ColMonth         = "imonth"
	ColCountry       = "country_txt"
	ColRegion        = "region_txt"
	ColSuccess       = "success"
	ColGroup         = "gname"
	ColPerpetrators  = "nperps"
	ColWeaponType    = "weaptype1_txt"
	ColWeaponSubtype = "weapsubtype1_txt"
	ColTargetType    = "targtype1_txt"
	ColKills         = "nkill"
	ColWounded       = "nwound"
)

// Columns lists the columns read and written, in output order.
var Columns = []string{
	ColEventID, ColYear, ColMonth, ColCountry, ColRegion, ColSuccess, ColGroup,
	ColPerpetrators, ColWeaponType, ColWeaponSubtype, ColTargetType, ColKills, ColWounded,
}

var requiredColumns = []string{ColCountry, ColYear}

// countryRenames maps dataset country names to the names used by map geometry.
var countryRenames = map[string]string{
	"Dominican Republic":               "Dominican Rep.",
	"United States":                    "United States of America",
	"Cyprus":                           "N. Cyprus",
	"Western Sahara":                   "W. Sahara",
	"Vatican City":                     "Vatican",
	"Central African Republic":         "Central African Rep.",
	"Falkland Islands":                 "Falkland Is.",
	"Republic of the Congo":            "Congo",
	"Ivory Coast":                      "Côte d'Ivoire",
	"Antigua and Barbuda":              "Antigua and Barb.",
	"Bosnia-Herzegovina":               "Bosnia and Herz.",
	"Equatorial Guinea":                "Eq. Guinea",
	"Slovak Republic":                  "Slovakia",
	"Wallis and Futuna":                "Wallis and Futuna Is.",
	"French Polynesia":                 "Fr. Polynesia",
	"Macau":                            "Macao",
	"Democratic Republic of the Congo": "Dem. Rep. Congo",
	"Solomon Islands":                  "Solomon Is.",
	"East Timor":                       "Timor leste",
	"St. Lucia":                        "Saint Lucia",
	"South Sudan":                      "S. Sudan",
}

// NormalizeCountry trims a country name and applies the map-label rename table.
func NormalizeCountry(name string) string {
	name = strings.TrimSpace(name)
	if renamed, ok := countryRenames[name]; ok {
		return renamed
	}
	return name
}

// Summary counts the anomalies seen while parsing.
type Summary struct {
	Rows           int
	MissingSuccess int
	InvalidYear    int
	InvalidMonth   int
	UnknownPerps   int
}

// LoadCSV reads the dataset file at path.
func LoadCSV(path string) ([]model.Incident, Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		// Best-effort close for read-only file.
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads incidents from CSV with a header row. Columns are matched by name and
// unknown columns are ignored. Malformed values never fail the load; they become
// zero years and months, unknown success, or unknown perpetrator counts.
func Parse(r io.Reader) ([]model.Incident, Summary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Summary{}, fmt.Errorf("dataset is empty: %w", ErrMissingColumn)
		}
		return nil, Summary{}, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, Summary{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var (
		records []model.Incident
		summary Summary
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Summary{}, fmt.Errorf("failed to read row %d: %w", summary.Rows+2, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := model.Incident{
			EventID:       field(ColEventID),
			Country:       NormalizeCountry(field(ColCountry)),
			Region:        field(ColRegion),
			GroupName:     field(ColGroup),
			WeaponType:    field(ColWeaponType),
			WeaponSubtype: field(ColWeaponSubtype),
			TargetType:    field(ColTargetType),
			Success:       parseSuccess(field(ColSuccess)),
			Perpetrators:  model.UnknownPerpetrators,
		}
		if y, ok := parseInt(field(ColYear)); ok && y > 0 {
			rec.Year = y
		} else {
			summary.InvalidYear++
		}
		if m, ok := parseInt(field(ColMonth)); ok && m >= 1 && m <= 12 {
			rec.Month = m
		} else {
			summary.InvalidMonth++
		}
		if p, ok := parseInt(field(ColPerpetrators)); ok && p >= 0 {
			rec.Perpetrators = p
		} else {
			summary.UnknownPerps++
		}
		if k, ok := parseInt(field(ColKills)); ok && k > 0 {
			rec.Kills = k
		}
		if w, ok := parseInt(field(ColWounded)); ok && w > 0 {
			rec.Wounded = w
		}
		if !rec.Success.Known() {
			summary.MissingSuccess++
		}
		summary.Rows++
		records = append(records, rec)
	}
	return records, summary, nil
}

// Write emits incidents as CSV using Columns as the header.
func Write(w io.Writer, records []model.Incident) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(Columns))
	for _, rec := range records {
		row[0] = rec.EventID
		row[1] = optionalInt(rec.Year, rec.ValidYear())
		row[2] = optionalInt(rec.Month, rec.ValidMonth())
		row[3] = rec.Country
		row[4] = rec.Region
		row[5] = successField(rec.Success)
		row[6] = rec.GroupName
		row[7] = strconv.Itoa(rec.Perpetrators)
		if !rec.PerpetratorsKnown() {
			row[7] = strconv.Itoa(model.UnknownPerpetrators)
		}
		row[8] = rec.WeaponType
		row[9] = rec.WeaponSubtype
		row[10] = rec.TargetType
		row[11] = strconv.Itoa(rec.Kills)
		row[12] = strconv.Itoa(rec.Wounded)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// parseInt accepts integers and integral floats such as "3.0". Blanks, NaN and
// fractional values such as "0.5" fail.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseSuccess(s string) model.Success {
	v, ok := parseInt(s)
	switch {
	case !ok:
		return model.SuccessUnknown
	case v == 1:
		return model.SuccessSucceeded
	case v == 0:
		return model.SuccessFailed
	default:
		return model.SuccessUnknown
	}
}

func successField(s model.Success) string {
	if s.Known() {
		return s.String()
	}
	return ""
}

func optionalInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}
