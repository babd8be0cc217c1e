// internal/heatmap/store/csv.go
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"heatmap-chat/internal/common/logger"
)

// LoadCSV builds a snapshot from a CSV dataset file. The file must
// carry a header row naming the 23 observation fields; a "lon" column
// is accepted as an alias for "lng". Rows with malformed key fields
// are skipped and counted.
func LoadCSV(path string, log logger.Logger) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	snap, skipped, err := parseCSV(f)
	if err != nil {
		return nil, err
	}

	log.Info("dataset loaded", map[string]interface{}{
		"path":    path,
		"rows":    snap.Len(),
		"keys":    snap.Keys(),
		"skipped": skipped,
	})
	return snap, nil
}

func parseCSV(r io.Reader) (*Snapshot, int, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read CSV header: %w", err)
	}

	col := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "lon" {
			name = "lng"
		}
		col[name] = i
	}
	for _, required := range []string{"month", "gx", "gy", "lat", "lng", "hour", "day_type", "avg_total_users"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("dataset missing required column %q", required)
		}
	}

	builder := NewBuilder()
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		row, err := rowFromRecord(record, col)
		if err != nil {
			skipped++
			continue
		}
		builder.Add(row)
	}

	return builder.Build(), skipped, nil
}

func rowFromRecord(record []string, col map[string]int) (ObservationRow, error) {
	intField := func(name string) (int, error) {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return 0, fmt.Errorf("missing %s", name)
		}
		return strconv.Atoi(strings.TrimSpace(record[i]))
	}

	// Missing or unparseable numeric cells become NaN here and are
	// zeroed by the normalization pass in Builder.Add.
	floatField := func(name string) float64 {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return math.NaN()
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	month, err := intField("month")
	if err != nil {
		return ObservationRow{}, err
	}
	gx, err := intField("gx")
	if err != nil {
		return ObservationRow{}, err
	}
	gy, err := intField("gy")
	if err != nil {
		return ObservationRow{}, err
	}
	hour, err := intField("hour")
	if err != nil {
		return ObservationRow{}, err
	}

	dayType, err := ParseDayType(record[col["day_type"]])
	if err != nil {
		return ObservationRow{}, err
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(record[col["lat"]]), 64)
	if err != nil {
		return ObservationRow{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(record[col["lng"]]), 64)
	if err != nil {
		return ObservationRow{}, fmt.Errorf("parse lng: %w", err)
	}

	return ObservationRow{
		Month:   month,
		GridX:   gx,
		GridY:   gy,
		Lat:     lat,
		Lng:     lng,
		Hour:    hour,
		DayType: dayType,

		TotalUsers:      floatField("avg_total_users"),
		UsersUnder10Min: floatField("avg_users_under_10min"),
		Users10To30Min:  floatField("avg_users_10_30min"),
		UsersOver30Min:  floatField("avg_users_over_30min"),

		Sex1: floatField("sex_1"),
		Sex2: floatField("sex_2"),

		Age1:     floatField("age_1"),
		Age2:     floatField("age_2"),
		Age3:     floatField("age_3"),
		Age4:     floatField("age_4"),
		Age5:     floatField("age_5"),
		Age6:     floatField("age_6"),
		Age7:     floatField("age_7"),
		Age8:     floatField("age_8"),
		Age9:     floatField("age_9"),
		AgeOther: floatField("age_other"),
	}, nil
}
