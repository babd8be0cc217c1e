// internal/heatmap/aggregate/summary.go
package aggregate

// DurationDistribution holds the summed user counts per dwell-time
// bucket. The three values add up to TotalUsers within rounding.
type DurationDistribution struct {
	Under10Min float64 `json:"under_10min"`
	Min10To30  float64 `json:"min_10_30"`
	Over30Min  float64 `json:"over_30min"`
}

// GenderDistribution holds weighted average percentages (0-100).
type GenderDistribution struct {
	MalePct   float64 `json:"male_pct"`
	FemalePct float64 `json:"female_pct"`
}

// AgeDistribution holds weighted average percentages (0-100) for the
// ten age buckets; age_1 is under 19, age_other is 60 and above.
type AgeDistribution struct {
	Age1     float64 `json:"age_1"`
	Age2     float64 `json:"age_2"`
	Age3     float64 `json:"age_3"`
	Age4     float64 `json:"age_4"`
	Age5     float64 `json:"age_5"`
	Age6     float64 `json:"age_6"`
	Age7     float64 `json:"age_7"`
	Age8     float64 `json:"age_8"`
	Age9     float64 `json:"age_9"`
	AgeOther float64 `json:"age_other"`
}

// TopLocation is one entry in the top-5 ranking, carrying WGS84
// coordinates and the per-location dwell-time breakdown.
type TopLocation struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	TotalUsers float64 `json:"total_users"`
	Under10Min float64 `json:"under_10min"`
	Min10To30  float64 `json:"10_30min"`
	Over30Min  float64 `json:"over_30min"`
}

// ContextSummary is the derived aggregate for one filter key. It is
// computed fresh per request and never cached.
type ContextSummary struct {
	TotalRecords int                  `json:"total_records"`
	TotalUsers   float64              `json:"total_users"`
	Duration     DurationDistribution `json:"duration_distribution"`
	Gender       GenderDistribution   `json:"gender_distribution"`
	Age          AgeDistribution      `json:"age_distribution"`
	TopLocations []TopLocation        `json:"top_locations"`
}

// emptySummary is the canonical zero summary for keys with no rows.
// An empty row set is a normal outcome, not a failure.
func emptySummary() *ContextSummary {
	return &ContextSummary{TopLocations: []TopLocation{}}
}
