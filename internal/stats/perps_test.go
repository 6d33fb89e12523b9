package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerpBucketsBoundaries(t *testing.T) {
	buckets := PerpBuckets([]int{1, 5, 9, 10, 11, 99, 100, 250})
	require.Equal(t, []PerpBucket{{Lo: 1, Hi: 10}, {Lo: 10, Hi: 100}, {Lo: 100, Hi: 250}}, buckets)

	labels := []string{}
	for _, b := range buckets {
		labels = append(labels, b.Label())
	}
	require.Equal(t, []string{"1-10", "10-100", "100-250"}, labels)
}

func TestPerpBucketsLargeValuesGrowTenfold(t *testing.T) {
	buckets := PerpBuckets([]int{5, 20000, 150000})
	require.Equal(t, []PerpBucket{
		{Lo: 5, Hi: 10},
		{Lo: 10, Hi: 100},
		{Lo: 100, Hi: 1000},
		{Lo: 1000, Hi: 10000},
		{Lo: 10000, Hi: 100000},
		{Lo: 100000, Hi: 150000},
	}, buckets)
}

func TestPerpBucketsSingleValue(t *testing.T) {
	require.Equal(t, []PerpBucket{{Lo: 7, Hi: 7}}, PerpBuckets([]int{7}))
	require.Nil(t, PerpBuckets(nil))
}

func TestPerpLabelFirstMatchWins(t *testing.T) {
	buckets := PerpBuckets([]int{1, 5, 9, 10, 11, 99, 100, 250})
	require.Equal(t, "1-10", PerpLabel(10, buckets))
	require.Equal(t, "10-100", PerpLabel(11, buckets))
	require.Equal(t, "10-100", PerpLabel(100, buckets))
	require.Equal(t, "100-250", PerpLabel(250, buckets))
	require.Equal(t, "300", PerpLabel(300, buckets))
}
