// internal/heatmap/aggregate/engine.go
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"heatmap-chat/internal/common/errors"
	"heatmap-chat/internal/common/logger"
	"heatmap-chat/internal/common/metrics"
	"heatmap-chat/internal/heatmap/store"
)

const topLocationCount = 5

// Engine computes context summaries over the observation snapshot.
// Aggregation is a pure read; the engine carries no mutable state.
type Engine struct {
	snapshot *store.Snapshot
	logger   logger.Logger
}

func NewEngine(snapshot *store.Snapshot, log logger.Logger) *Engine {
	return &Engine{
		snapshot: snapshot,
		logger:   log.WithFields(map[string]interface{}{"component": "aggregation-engine"}),
	}
}

// Aggregate computes the summary for one filter key. A malformed key
// fails validation before the snapshot is touched; an empty row set
// yields the canonical zero summary.
func (e *Engine) Aggregate(key store.FilterKey) (*ContextSummary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	rows := e.snapshot.Lookup(key)
	if len(rows) == 0 {
		return emptySummary(), nil
	}

	summary := &ContextSummary{TotalRecords: len(rows)}

	for _, row := range rows {
		summary.TotalUsers += row.TotalUsers
		summary.Duration.Under10Min += row.UsersUnder10Min
		summary.Duration.Min10To30 += row.Users10To30Min
		summary.Duration.Over30Min += row.UsersOver30Min
	}

	if math.IsNaN(summary.TotalUsers) || math.IsInf(summary.TotalUsers, 0) {
		return nil, errors.NewAggregationInternalError(key.String(),
			fmt.Sprintf("non-finite total users over %d rows", len(rows)))
	}

	// All demographic fields share a single weight vector: per-row
	// total users. With zero total users every percentage stays 0.
	if summary.TotalUsers > 0 {
		summary.Gender.MalePct = weightedPct(rows, summary.TotalUsers, func(r store.ObservationRow) float64 { return r.Sex1 })
		summary.Gender.FemalePct = weightedPct(rows, summary.TotalUsers, func(r store.ObservationRow) float64 { return r.Sex2 })

		ages := [10]*float64{
			&summary.Age.Age1, &summary.Age.Age2, &summary.Age.Age3, &summary.Age.Age4, &summary.Age.Age5,
			&summary.Age.Age6, &summary.Age.Age7, &summary.Age.Age8, &summary.Age.Age9, &summary.Age.AgeOther,
		}
		for i, dst := range ages {
			bucket := i
			*dst = weightedPct(rows, summary.TotalUsers, func(r store.ObservationRow) float64 {
				return r.AgeBuckets()[bucket]
			})
		}
	}

	summary.TopLocations = topLocations(rows)

	e.logger.Debug("summary computed", map[string]interface{}{
		"filterKey":    key.String(),
		"totalRecords": summary.TotalRecords,
		"totalUsers":   summary.TotalUsers,
	})

	return summary, nil
}

func weightedPct(rows []store.ObservationRow, totalUsers float64, field func(store.ObservationRow) float64) float64 {
	var sum float64
	for _, row := range rows {
		sum += field(row) * row.TotalUsers
	}
	return sum / totalUsers
}

// topLocations ranks rows by total users descending, stable on ties,
// and keeps at most five. Comparisons treat non-finite values as
// smallest so a pathological row can never crowd out real data.
func topLocations(rows []store.ObservationRow) []TopLocation {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return moreUsers(rows[idx[a]].TotalUsers, rows[idx[b]].TotalUsers)
	})

	n := topLocationCount
	if len(idx) < n {
		n = len(idx)
	}

	top := make([]TopLocation, 0, n)
	for _, i := range idx[:n] {
		row := rows[i]
		top = append(top, TopLocation{
			Lat:        row.Lat,
			Lon:        row.Lng,
			TotalUsers: row.TotalUsers,
			Under10Min: row.UsersUnder10Min,
			Min10To30:  row.Users10To30Min,
			Over30Min:  row.UsersOver30Min,
		})
	}
	return top
}

func moreUsers(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
