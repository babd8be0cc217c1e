// internal/heatmap/export/projector.go
package export

import (
	"heatmap-chat/internal/common/logger"
	"heatmap-chat/internal/heatmap/store"
)

// RowRecord is one observation flattened to its 23 named fields.
type RowRecord map[string]interface{}

// Projector flattens raw observation rows for inspection. It applies
// no aggregation; rows come out in snapshot order, already
// zero-normalized by ingestion. Callers slice the result themselves.
type Projector struct {
	snapshot *store.Snapshot
	logger   logger.Logger
}

func NewProjector(snapshot *store.Snapshot, log logger.Logger) *Projector {
	return &Projector{
		snapshot: snapshot,
		logger:   log.WithFields(map[string]interface{}{"component": "export-projector"}),
	}
}

// Project returns the full ordered row sequence for a key as flat
// field mappings. An empty row set projects to an empty sequence.
func (p *Projector) Project(key store.FilterKey) ([]RowRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	rows := p.snapshot.Lookup(key)
	records := make([]RowRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, RowRecord{
			"month":    row.Month,
			"gx":       row.GridX,
			"gy":       row.GridY,
			"lat":      row.Lat,
			"lng":      row.Lng,
			"hour":     row.Hour,
			"day_type": string(row.DayType),

			"avg_total_users":       row.TotalUsers,
			"avg_users_under_10min": row.UsersUnder10Min,
			"avg_users_10_30min":    row.Users10To30Min,
			"avg_users_over_30min":  row.UsersOver30Min,

			"sex_1": row.Sex1,
			"sex_2": row.Sex2,

			"age_1":     row.Age1,
			"age_2":     row.Age2,
			"age_3":     row.Age3,
			"age_4":     row.Age4,
			"age_5":     row.Age5,
			"age_6":     row.Age6,
			"age_7":     row.Age7,
			"age_8":     row.Age8,
			"age_9":     row.Age9,
			"age_other": row.AgeOther,
		})
	}

	p.logger.Debug("rows projected", map[string]interface{}{
		"filterKey": key.String(),
		"count":     len(records),
	})
	return records, nil
}
