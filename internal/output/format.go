// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"muse/internal/habit"
	"muse/internal/service"
)

const (
	// Separator is the rule printed around section headers.
	Separator = "------------"

	// BarWidth is the width of a full bar in the weekly chart.
	BarWidth = 10

	barFull  = "#"
	barEmpty = "."
)

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeTitle(title))
	fmt.Fprintln(w, Separator)
}

// FormatImage formats a numbered image line.
// Format: "{N:>4}  {URL}\n", with " *" appended when selected.
func FormatImage(w io.Writer, num int, url string, selected bool) {
	fmt.Fprintf(w, "%4d  %s%s\n", num, url, mark(selected))
}

// FormatUpload formats an image the user added by URL. Uploads are always
// selected. Format: "   +  {URL} *\n".
func FormatUpload(w io.Writer, url string) {
	fmt.Fprintf(w, "%4s  %s%s\n", "+", url, mark(true))
}

// FormatSong formats a numbered song line.
// Format: "{N:>4}  {NAME} by {ARTIST}\n", with " *" appended when selected.
func FormatSong(w io.Writer, num int, song service.Song, selected bool) {
	fmt.Fprintf(w, "%4d  %s%s\n", num, SongTitle(song), mark(selected))
}

// SongTitle returns "<name> by <artist>", or just the name when the artist is
// unknown.
func SongTitle(song service.Song) string {
	name := normalizeTitle(song.Name)
	if strings.TrimSpace(song.Artist) == "" {
		return name
	}
	return name + " by " + song.Artist
}

// FormatWeek formats the weekly bar chart, one line per day.
// Format: "{DAY}  {BAR}\n", where the bar is BarWidth wide.
func FormatWeek(w io.Writer, week habit.Week) {
	for day, v := range week {
		bar := strings.Repeat(barEmpty, BarWidth)
		if v == 1 {
			bar = strings.Repeat(barFull, BarWidth)
		}
		fmt.Fprintf(w, "%s  %s\n", habit.DayNames[day], bar)
	}
}

// FormatState formats the weekly chart followed by the streak counter.
func FormatState(w io.Writer, st habit.State) {
	FormatWeek(w, st.Week)
	FormatStreak(w, st)
}

// FormatStreak formats the streak counter line.
func FormatStreak(w io.Writer, st habit.State) {
	days := "days"
	if st.Streak == 1 {
		days = "day"
	}
	suffix := ""
	if st.LoggedToday {
		suffix = " (logged today)"
	}
	fmt.Fprintf(w, "streak: %d %s%s\n", st.Streak, days, suffix)
}

// FormatStats formats the derived weekly statistics.
func FormatStats(w io.Writer, week habit.Week) {
	fmt.Fprintf(w, "days this week: %d/%d\n", week.Count(), habit.DaysPerWeek)
	fmt.Fprintf(w, "completion:     %.0f%%\n", week.CompletionRate()*100)
	fmt.Fprintf(w, "longest run:    %d\n", week.LongestRun())
}

func mark(selected bool) string {
	if selected {
		return " *"
	}
	return ""
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
