// Package habit implements the habit-logging streak tracker.
//
// A Log holds one week of day marks, a running streak counter, and a flag
// recording whether the current day has been logged. The current date is
// always passed in by the caller; the package never reads the wall clock.
package habit

import (
	"time"
)

// DaysPerWeek is the length of a Week.
const DaysPerWeek = 7

// Week is a day-indexed vector of marks, Sunday=0 through Saturday=6.
// Each entry is 0 or 1.
type Week [DaysPerWeek]int

// State is a snapshot of a Log.
type State struct {
	Streak      int  `json:"streak"`
	Week        Week `json:"weekVector"`
	LoggedToday bool `json:"loggedToday"`
}

// Log tracks a single habit for one session.
// A Log is not safe for concurrent use.
type Log struct {
	week        Week
	streak      int
	loggedToday bool
	lastLogged  time.Time
	policy      Rollover
}

// Option configures a Log.
type Option func(*Log)

// WithRollover sets the day-boundary policy.
func WithRollover(r Rollover) Option {
	return func(l *Log) {
		l.policy = r
	}
}

// New returns a fresh Log with every counter at zero.
func New(opts ...Option) *Log {
	l := &Log{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DayIndex maps a date to its index in a Week (Sunday=0).
func DayIndex(date time.Time) int {
	return int(date.Weekday())
}

// Rollover returns the day-boundary policy of the log.
func (l *Log) Rollover() Rollover {
	return l.policy
}

// LogToday marks date's weekday and increments the streak.
// If the day is already logged it returns the unchanged state.
func (l *Log) LogToday(date time.Time) State {
	l.rollover(date)
	if l.loggedToday {
		return l.State()
	}

	l.streak++
	l.week[DayIndex(date)] = 1
	l.loggedToday = true
	l.lastLogged = date
	return l.State()
}

// Reset clears the streak, the logged flag, and the week.
func (l *Log) Reset() State {
	l.week = Week{}
	l.streak = 0
	l.loggedToday = false
	l.lastLogged = time.Time{}
	return l.State()
}

// State returns a snapshot of the log.
func (l *Log) State() State {
	return State{
		Streak:      l.streak,
		Week:        l.week,
		LoggedToday: l.loggedToday,
	}
}

// StateAt returns a snapshot after applying the rollover policy for date.
// Under RolloverManual it is identical to State.
func (l *Log) StateAt(date time.Time) State {
	l.rollover(date)
	return l.State()
}

// rollover applies the day-boundary policy. The streak is never touched.
func (l *Log) rollover(date time.Time) {
	if l.policy != RolloverDaily || l.lastLogged.IsZero() {
		return
	}
	if !after(date, l.lastLogged) {
		return
	}
	l.loggedToday = false
	if !sameWeek(date, l.lastLogged) {
		l.week = Week{}
	}
}

// after reports whether a falls on a later calendar day than b.
// Both dates are compared in a's location.
func after(a, b time.Time) bool {
	return startOfDay(a).After(startOfDay(b.In(a.Location())))
}

// sameWeek reports whether a and b fall in the same Sunday-based week.
func sameWeek(a, b time.Time) bool {
	return startOfWeek(a).Equal(startOfWeek(b.In(a.Location())))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -DayIndex(day))
}
