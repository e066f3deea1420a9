package weather

import "time"

// AggregateDays combines forecast entries into per-day summaries in loc.
// Temperatures take the extremes of the day, the condition is the majority
// (first seen wins a tie) and the rain chance is the day's maximum. At most
// days summaries are returned, ordered by date.
func AggregateDays(entries []ForecastEntry, loc *time.Location, days int) []DailyForecast {
	if len(entries) == 0 || days <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	type bucket struct {
		day     DailyForecast
		hasTemp bool
		counts  map[int]int
		order   []Condition
	}

	var (
		keys    []string
		buckets = make(map[string]*bucket)
	)

	for _, e := range entries {
		ts := time.Unix(e.Time, 0).In(loc)
		k := ts.Format("2006-01-02")

		b, ok := buckets[k]
		if !ok {
			if len(keys) == days {
				continue
			}
			b = &bucket{
				day: DailyForecast{
					Date: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc),
				},
				counts: make(map[int]int),
			}
			buckets[k] = b
			keys = append(keys, k)
		}

		switch {
		case e.NoTemperature:
		case !b.hasTemp:
			b.day.MinK, b.day.MaxK = e.MinK, e.MaxK
			b.hasTemp = true
		default:
			if e.MinK < b.day.MinK {
				b.day.MinK = e.MinK
			}
			if e.MaxK > b.day.MaxK {
				b.day.MaxK = e.MaxK
			}
		}
		if p := PercentFromFraction(e.PopFraction); p > b.day.MaxRainPercent {
			b.day.MaxRainPercent = p
		}

		if _, seen := b.counts[e.Condition.ID]; !seen {
			b.order = append(b.order, e.Condition)
		}
		b.counts[e.Condition.ID]++
	}

	out := make([]DailyForecast, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]

		// Pick majority condition.
		best := 0
		for _, c := range b.order {
			if n := b.counts[c.ID]; n > best {
				best = n
				b.day.Condition = c
			}
		}
		out = append(out, b.day)
	}
	return out
}
