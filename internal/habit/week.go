package habit

// DayNames holds the short weekday labels in Week order.
var DayNames = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Count returns the number of marked days.
func (w Week) Count() int {
	n := 0
	for _, v := range w {
		n += v
	}
	return n
}

// CompletionRate returns the fraction of the week that is marked.
func (w Week) CompletionRate() float64 {
	return float64(w.Count()) / DaysPerWeek
}

// LongestRun returns the longest run of consecutive marked days.
// Runs do not wrap from Saturday to Sunday.
func (w Week) LongestRun() int {
	best, run := 0, 0
	for _, v := range w {
		if v == 1 {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// RunEndingAt returns the number of consecutive marked days ending at day.
// It returns 0 if day is out of range or unmarked.
func (w Week) RunEndingAt(day int) int {
	if day < 0 || day >= DaysPerWeek {
		return 0
	}
	n := 0
	for i := day; i >= 0 && w[i] == 1; i-- {
		n++
	}
	return n
}
