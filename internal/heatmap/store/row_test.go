// internal/heatmap/store/row_test.go
package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "heatmap-chat/internal/common/errors"
)

func TestParseDayType(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    DayType
		wantErr bool
	}{
		{name: "chinese weekday", label: "平日", want: Weekday},
		{name: "chinese weekend", label: "假日", want: Weekend},
		{name: "english weekday", label: "weekday", want: Weekday},
		{name: "english weekend", label: "weekend", want: Weekend},
		{name: "mixed case", label: "Weekday", want: Weekday},
		{name: "surrounding whitespace", label: "  假日  ", want: Weekend},
		{name: "unknown label", label: "holiday", wantErr: true},
		{name: "empty label", label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayType(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterKeyValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     FilterKey
		wantErr bool
	}{
		{name: "valid key", key: FilterKey{Month: 202412, Hour: 8, DayType: Weekday}},
		{name: "lowest month", key: FilterKey{Month: 100001, Hour: 0, DayType: Weekend}},
		{name: "highest month", key: FilterKey{Month: 999912, Hour: 23, DayType: Weekday}},
		{name: "month too small", key: FilterKey{Month: 100000, Hour: 8, DayType: Weekday}, wantErr: true},
		{name: "month too large", key: FilterKey{Month: 999913, Hour: 8, DayType: Weekday}, wantErr: true},
		{name: "negative hour", key: FilterKey{Month: 202412, Hour: -1, DayType: Weekday}, wantErr: true},
		{name: "hour past midnight", key: FilterKey{Month: 202412, Hour: 24, DayType: Weekday}, wantErr: true},
		{name: "unnormalized day type", key: FilterKey{Month: 202412, Hour: 8, DayType: "平日"}, wantErr: true},
		{name: "empty day type", key: FilterKey{Month: 202412, Hour: 8}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestObservationRowNormalize(t *testing.T) {
	row := ObservationRow{
		Lat:             25.033,
		Lng:             121.544,
		TotalUsers:      math.NaN(),
		UsersUnder10Min: math.Inf(1),
		Users10To30Min:  42.5,
		Sex1:            math.Inf(-1),
		Age3:            math.NaN(),
		Age5:            18.2,
	}

	row.Normalize()

	assert.Zero(t, row.TotalUsers)
	assert.Zero(t, row.UsersUnder10Min)
	assert.Zero(t, row.Sex1)
	assert.Zero(t, row.Age3)
	assert.Equal(t, 42.5, row.Users10To30Min)
	assert.Equal(t, 18.2, row.Age5)

	// Coordinates are required fields, never touched by normalization.
	assert.Equal(t, 25.033, row.Lat)
	assert.Equal(t, 121.544, row.Lng)
}

func TestObservationRowKey(t *testing.T) {
	row := ObservationRow{Month: 202501, Hour: 17, DayType: Weekend}
	assert.Equal(t, FilterKey{Month: 202501, Hour: 17, DayType: Weekend}, row.Key())
}
