// Package session keeps in-memory habit logs keyed by user and habit.
//
// Nothing is persisted; a Store lives as long as the process that owns it.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"muse/internal/habit"
)

// DefaultUser is used when a caller does not identify itself.
const DefaultUser = "default"

// ErrHabitRequired is returned when a key has no habit name.
var ErrHabitRequired = errors.New("habit name required")

// Key identifies one habit log.
type Key struct {
	User  string
	Habit string
}

// NormalizeKey trims both parts, lowercases the habit, and applies
// DefaultUser when user is blank.
func NormalizeKey(user, habitName string) (Key, error) {
	habitName = strings.ToLower(strings.TrimSpace(habitName))
	if habitName == "" {
		return Key{}, ErrHabitRequired
	}
	user = strings.TrimSpace(user)
	if user == "" {
		user = DefaultUser
	}
	return Key{User: user, Habit: habitName}, nil
}

// Store holds habit logs. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	logs map[Key]*habit.Log
	opts []habit.Option
}

// NewStore creates an empty store. opts are applied to every new log.
func NewStore(opts ...habit.Option) *Store {
	return &Store{
		logs: make(map[Key]*habit.Log),
		opts: opts,
	}
}

// LogToday logs date for key, creating the log on first use.
func (s *Store) LogToday(key Key, date time.Time) habit.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key).LogToday(date)
}

// Reset clears the log for key.
func (s *Store) Reset(key Key) habit.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key).Reset()
}

// State returns the state of key as seen on date.
// Unknown keys report a fresh state without being stored.
func (s *Store) State(key Key, date time.Time) habit.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[key]
	if !ok {
		return habit.State{}
	}
	return log.StateAt(date)
}

// Forget drops the log for key.
func (s *Store) Forget(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, key)
}

// Len returns the number of tracked logs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// get must be called with s.mu held.
func (s *Store) get(key Key) *habit.Log {
	log, ok := s.logs[key]
	if !ok {
		log = habit.New(s.opts...)
		s.logs[key] = log
	}
	return log
}
