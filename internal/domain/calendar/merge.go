package calendar

// Row is one schedule line for reporting: a range on a day key. The day key is
// either a date ("2024-05-02") or a recurring weekday ("MONDAY").
type Row struct {
	DayKey string
	Start  string
	End    string
	// Slots counts how many source rows were folded into this one.
	Slots int
}

// MergeContiguous folds a chronologically sorted sequence of rows. A row whose
// Start equals the End of the latest range on the same day key extends that
// range. Output keeps first-seen order and non-contiguous rows are never
// reordered. A row repeating a (day key, start) pair already seen is dropped.
// The input slice is not modified.
func MergeContiguous(rows []Row) []Row {
	type dayStart struct{ day, start string }

	out := make([]Row, 0, len(rows))
	latest := make(map[string]int, len(rows))
	seen := make(map[dayStart]struct{}, len(rows))

	for _, r := range rows {
		key := dayStart{r.DayKey, r.Start}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		weight := r.Slots
		if weight == 0 {
			weight = 1
		}

		if idx, ok := latest[r.DayKey]; ok && out[idx].End == r.Start {
			out[idx].End = r.End
			out[idx].Slots += weight
			continue
		}

		out = append(out, Row{DayKey: r.DayKey, Start: r.Start, End: r.End, Slots: weight})
		latest[r.DayKey] = len(out) - 1
	}
	return out
}
