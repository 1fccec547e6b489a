package tracker

import (
	"time"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/utils"
)

// TimeOfDay is a coarse bucket of the local hour a craving happened in.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Forenoon  TimeOfDay = "forenoon"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	LateNight TimeOfDay = "late night"
)

// TimesOfDay lists the buckets in display order.
var TimesOfDay = []TimeOfDay{Morning, Forenoon, Afternoon, Evening, LateNight}

// BucketFor returns the bucket for a local hour 0..23.
func BucketFor(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 9:
		return Morning
	case hour >= 9 && hour < 12:
		return Forenoon
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return LateNight
	}
}

type BucketCount struct {
	Bucket TimeOfDay `json:"bucket"`
	Count  int       `json:"count"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// CravingStats aggregates a craving log for charts.
type CravingStats struct {
	Total            int           `json:"total"`
	AverageIntensity float64       `json:"average_intensity"`
	ByTimeOfDay      []BucketCount `json:"by_time_of_day"`
	Daily            []DailyCount  `json:"daily"`
}

// ComputeCravingStats buckets records by local time of day and counts them
// per day over the days ending on now's local date, oldest first.
func ComputeCravingStats(records []CravingRecord, now time.Time, days int, loc *time.Location) CravingStats {
	if loc == nil {
		loc = time.Local
	}

	stats := CravingStats{Total: len(records)}
	buckets := make(map[TimeOfDay]int, len(TimesOfDay))
	perDay := make(map[string]int)
	sum := 0
	for _, r := range records {
		local := r.Timestamp.In(loc)
		buckets[BucketFor(local.Hour())]++
		perDay[local.Format(constants.DateFormat)]++
		sum += r.Intensity
	}
	if len(records) > 0 {
		stats.AverageIntensity = float64(sum) / float64(len(records))
	}

	for _, b := range TimesOfDay {
		stats.ByTimeOfDay = append(stats.ByTimeOfDay, BucketCount{Bucket: b, Count: buckets[b]})
	}

	today := utils.StartOfDay(now.In(loc))
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(constants.DateFormat)
		stats.Daily = append(stats.Daily, DailyCount{Day: day, Count: perDay[day]})
	}

	return stats
}

// Series returns the daily counts as chart values.
func (s CravingStats) Series() []float64 {
	out := make([]float64, len(s.Daily))
	for i, d := range s.Daily {
		out[i] = float64(d.Count)
	}
	return out
}
