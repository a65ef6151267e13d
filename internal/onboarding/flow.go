// Package onboarding models the six-screen onboarding flow and the params
// each screen hands to the next.
package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxImages is the number of suggested images shown on the moodboard screen.
	MaxImages = 4

	// MaxSongs is the number of suggested tracks shown on the playlist screen.
	MaxSongs = 4
)

// WelcomeText is shown on the first screen.
const WelcomeText = "Become your own Muse"

// IntroLines are revealed one at a time on the intro screen.
var IntroLines = []string{
	"Muse believes we are what we do",
	"Habits are built through holistic change",
	"and Muse is here to guide you",
	"Are you ready to take the first step?",
}

var (
	// ErrWrongScreen is returned when a transition is requested from a screen
	// that does not offer it.
	ErrWrongScreen = errors.New("wrong screen")

	// ErrHabitRequired is returned when the habit name is blank.
	ErrHabitRequired = errors.New("habit name required")
)

// Screen identifies one step of the flow.
type Screen int

const (
	Welcome Screen = iota
	Intro
	HabitEntry
	Moodboard
	Playlist
	Dashboard
)

func (s Screen) String() string {
	switch s {
	case Welcome:
		return "welcome"
	case Intro:
		return "intro"
	case HabitEntry:
		return "habit"
	case Moodboard:
		return "moodboard"
	case Playlist:
		return "playlist"
	case Dashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Params carries what earlier screens collected.
type Params struct {
	Habit  string
	Images []string
	Songs  []string
}

// Flow is the navigation state machine. It only moves forward.
type Flow struct {
	screen Screen
	params Params
}

// New returns a flow positioned on the welcome screen.
func New() *Flow {
	return &Flow{screen: Welcome}
}

// Screen returns the current screen.
func (f *Flow) Screen() Screen { return f.screen }

// Params returns a copy of the collected params.
func (f *Flow) Params() Params {
	return Params{
		Habit:  f.params.Habit,
		Images: append([]string(nil), f.params.Images...),
		Songs:  append([]string(nil), f.params.Songs...),
	}
}

// Advance moves past the screens that collect nothing:
// Welcome to Intro, and Intro to HabitEntry.
func (f *Flow) Advance() error {
	switch f.screen {
	case Welcome:
		f.screen = Intro
	case Intro:
		f.screen = HabitEntry
	default:
		return f.wrongScreen(Intro)
	}
	return nil
}

// SubmitHabit records the habit name and moves to the moodboard.
func (f *Flow) SubmitHabit(name string) error {
	if f.screen != HabitEntry {
		return f.wrongScreen(HabitEntry)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrHabitRequired
	}
	f.params.Habit = name
	f.screen = Moodboard
	return nil
}

// SubmitImages records the selected images and moves to the playlist.
// An empty selection is allowed.
func (f *Flow) SubmitImages(images []string) error {
	if f.screen != Moodboard {
		return f.wrongScreen(Moodboard)
	}
	f.params.Images = append([]string(nil), images...)
	f.screen = Playlist
	return nil
}

// SubmitSongs records the selected track IDs and moves to the dashboard.
func (f *Flow) SubmitSongs(songs []string) error {
	if f.screen != Playlist {
		return f.wrongScreen(Playlist)
	}
	f.params.Songs = append([]string(nil), songs...)
	f.screen = Dashboard
	return nil
}

func (f *Flow) wrongScreen(want Screen) error {
	return fmt.Errorf("%w: on %s, need %s", ErrWrongScreen, f.screen, want)
}
