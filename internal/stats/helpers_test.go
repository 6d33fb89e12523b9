package stats

import "github.com/verte-zerg/gtdash/internal/model"

// mk builds a successful incident with unknown perpetrators.
func mk(country string, year, month int) model.Incident {
	return model.Incident{
		Country:      country,
		Year:         year,
		Month:        month,
		Success:      model.SuccessSucceeded,
		Perpetrators: model.UnknownPerpetrators,
	}
}

func repeat(n int, rec model.Incident) []model.Incident {
	out := make([]model.Incident, n)
	for i := range out {
		out[i] = rec
	}
	return out
}

func withWeapon(rec model.Incident, subtype string) model.Incident {
	rec.WeaponSubtype = subtype
	return rec
}

func withGroup(rec model.Incident, group string) model.Incident {
	rec.GroupName = group
	return rec
}

func withSuccess(rec model.Incident, s model.Success) model.Incident {
	rec.Success = s
	return rec
}
