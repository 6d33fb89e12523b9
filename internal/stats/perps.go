package stats

import (
	"sort"
	"strconv"

	"github.com/verte-zerg/gtdash/internal/model"
)

// maxRawPerpValues is the distinct-value count above which perpetrator counts are bucketed.
const maxRawPerpValues = 5

// PerpBucket is an inclusive perpetrator-count range.
type PerpBucket struct {
	Lo int
	Hi int
}

// Label renders the bucket as "lo-hi".
func (b PerpBucket) Label() string {
	return strconv.Itoa(b.Lo) + "-" + strconv.Itoa(b.Hi)
}

// PerpBuckets splits [min, max] of values into ranges whose upper bounds step through
// 10, 100, 1000 and 10000, then grow tenfold. The last bucket ends at max.
func PerpBuckets(values []int) []PerpBucket {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []PerpBucket{{Lo: lo, Hi: hi}}
	}
	var buckets []PerpBucket
	for cur := lo; cur < hi; {
		next := nextPerpBound(cur)
		if next > hi {
			next = hi
		}
		buckets = append(buckets, PerpBucket{Lo: cur, Hi: next})
		cur = next
	}
	return buckets
}

func nextPerpBound(cur int) int {
	switch {
	case cur < 10:
		return 10
	case cur < 100:
		return 100
	case cur < 1000:
		return 1000
	case cur < 10000:
		return 10000
	default:
		return cur * 10
	}
}

// PerpLabel returns the first bucket containing v, or v itself when none does.
func PerpLabel(v int, buckets []PerpBucket) string {
	for _, b := range buckets {
		if v >= b.Lo && v <= b.Hi {
			return b.Label()
		}
	}
	return strconv.Itoa(v)
}

// perpCategorizer labels perpetrator counts per group.
type perpCategorizer struct {
	buckets map[string][]PerpBucket
}

// newPerpCategorizer collects the distinct known counts of each group and
// prepares buckets for the groups with more than maxRawPerpValues of them.
func newPerpCategorizer(records []model.Incident, group func(model.Incident) (string, bool)) perpCategorizer {
	distinct := make(map[string]map[int]struct{})
	for _, rec := range records {
		name, ok := group(rec)
		if !ok || !rec.PerpetratorsKnown() {
			continue
		}
		set, ok := distinct[name]
		if !ok {
			set = make(map[int]struct{})
			distinct[name] = set
		}
		set[rec.Perpetrators] = struct{}{}
	}
	buckets := make(map[string][]PerpBucket)
	for name, set := range distinct {
		if len(set) <= maxRawPerpValues {
			continue
		}
		values := make([]int, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Ints(values)
		buckets[name] = PerpBuckets(values)
	}
	return perpCategorizer{buckets: buckets}
}

func (p perpCategorizer) label(groupName string, rec model.Incident) string {
	if !rec.PerpetratorsKnown() {
		return UndefinedLabel
	}
	if buckets, ok := p.buckets[groupName]; ok {
		return PerpLabel(rec.Perpetrators, buckets)
	}
	return strconv.Itoa(rec.Perpetrators)
}
