// internal/heatmap/store/snapshot_test.go
package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotLookupPreservesOrder(t *testing.T) {
	builder := NewBuilder()
	for i, users := range []float64{10, 20, 30} {
		builder.Add(ObservationRow{
			Month: 202412, Hour: 8, DayType: Weekday,
			GridX: i, TotalUsers: users,
		})
	}
	builder.Add(ObservationRow{Month: 202412, Hour: 9, DayType: Weekday, TotalUsers: 5})
	snap := builder.Build()

	rows := snap.Lookup(FilterKey{Month: 202412, Hour: 8, DayType: Weekday})
	assert.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i, row.GridX)
	}

	assert.Equal(t, 4, snap.Len())
	assert.Equal(t, 2, snap.Keys())
}

func TestSnapshotLookupMissingKey(t *testing.T) {
	snap := NewBuilder().Build()
	rows := snap.Lookup(FilterKey{Month: 202412, Hour: 8, DayType: Weekday})
	assert.Empty(t, rows)
}

func TestBuilderNormalizesOnAdd(t *testing.T) {
	builder := NewBuilder()
	builder.Add(ObservationRow{
		Month: 202412, Hour: 8, DayType: Weekday,
		TotalUsers: math.NaN(),
		Sex1:       math.Inf(1),
	})
	snap := builder.Build()

	rows := snap.Lookup(FilterKey{Month: 202412, Hour: 8, DayType: Weekday})
	assert.Len(t, rows, 1)
	assert.Zero(t, rows[0].TotalUsers)
	assert.Zero(t, rows[0].Sex1)
}
