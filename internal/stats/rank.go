// Package stats contains the view aggregators and text reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/gtdash/internal/model"
)

type labelCount struct {
	label string
	count int
}

// rankCounts orders labels by count descending, ties by label.
func rankCounts(counts map[string]int) []labelCount {
	items := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		items = append(items, labelCount{label: label, count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count == items[j].count {
			return items[i].label < items[j].label
		}
		return items[i].count > items[j].count
	})
	return items
}

// topLabels returns the first n labels of rankCounts.
func topLabels(counts map[string]int, n int) []string {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	items := rankCounts(counts)
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].label)
	}
	return out
}

// TopCountries returns the n countries with the most incidents.
func TopCountries(records []model.Incident, n int) []string {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Country == "" {
			continue
		}
		counts[rec.Country]++
	}
	return topLabels(counts, n)
}

// distinctCountries counts the non-blank countries present in records.
func distinctCountries(records []model.Incident) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Country != "" {
			seen[rec.Country] = struct{}{}
		}
	}
	return len(seen)
}

func capList(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
