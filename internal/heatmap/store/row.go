// internal/heatmap/store/row.go
package store

import (
	"fmt"
	"math"
	"strings"

	"heatmap-chat/internal/common/errors"
)

// DayType partitions observations into weekday and weekend traffic.
type DayType string

const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// ParseDayType normalizes localized day-type labels at the boundary.
// The upstream dataset and frontend use Traditional Chinese labels.
func ParseDayType(label string) (DayType, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "平日", "weekday":
		return Weekday, nil
	case "假日", "weekend":
		return Weekend, nil
	default:
		return "", fmt.Errorf("unknown day type %q", label)
	}
}

// FilterKey is the composite (month, hour, day type) partition identifier.
// It uniquely selects one row set from the snapshot.
type FilterKey struct {
	Month   int     `json:"month"`
	Hour    int     `json:"hour"`
	DayType DayType `json:"day_type"`
}

func (k FilterKey) String() string {
	return fmt.Sprintf("%d/%02d/%s", k.Month, k.Hour, k.DayType)
}

// Validate checks the key bounds before any cache access. The month
// check is a range check on the YYYYMM integer, not strict calendar
// validation, matching the upstream boundary contract.
func (k FilterKey) Validate() error {
	if k.Month < 100001 || k.Month > 999912 {
		return errors.NewValidationError(fmt.Sprintf("month must be in YYYYMM format, got %d", k.Month))
	}
	if k.Hour < 0 || k.Hour > 23 {
		return errors.NewValidationError(fmt.Sprintf("hour must be between 0 and 23, got %d", k.Hour))
	}
	if k.DayType != Weekday && k.DayType != Weekend {
		return errors.NewValidationError(fmt.Sprintf("day type must be weekday or weekend, got %q", k.DayType))
	}
	return nil
}

// ObservationRow is one raw spatio-temporal record with demographic and
// dwell-time fields. Demographic fields are percentages per row; user
// counts are monthly averages, so fractional values are expected.
type ObservationRow struct {
	Month   int     `json:"month"`
	GridX   int     `json:"gx"`
	GridY   int     `json:"gy"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Hour    int     `json:"hour"`
	DayType DayType `json:"day_type"`

	TotalUsers      float64 `json:"avg_total_users"`
	UsersUnder10Min float64 `json:"avg_users_under_10min"`
	Users10To30Min  float64 `json:"avg_users_10_30min"`
	UsersOver30Min  float64 `json:"avg_users_over_30min"`

	Sex1 float64 `json:"sex_1"`
	Sex2 float64 `json:"sex_2"`

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

// Key returns the partition key this row belongs to.
func (r ObservationRow) Key() FilterKey {
	return FilterKey{Month: r.Month, Hour: r.Hour, DayType: r.DayType}
}

// Normalize zeroes NaN and infinite statistic cells so missing or
// undefined values never reach arithmetic. Coordinates are required
// fields and are left untouched. Runs exactly once per row at ingestion.
func (r *ObservationRow) Normalize() {
	for _, cell := range []*float64{
		&r.TotalUsers, &r.UsersUnder10Min, &r.Users10To30Min, &r.UsersOver30Min,
		&r.Sex1, &r.Sex2,
		&r.Age1, &r.Age2, &r.Age3, &r.Age4, &r.Age5,
		&r.Age6, &r.Age7, &r.Age8, &r.Age9, &r.AgeOther,
	} {
		if math.IsNaN(*cell) || math.IsInf(*cell, 0) {
			*cell = 0.0
		}
	}
}

// AgeBuckets returns the ten age percentages in bucket order.
func (r ObservationRow) AgeBuckets() [10]float64 {
	return [10]float64{
		r.Age1, r.Age2, r.Age3, r.Age4, r.Age5,
		r.Age6, r.Age7, r.Age8, r.Age9, r.AgeOther,
	}
}
