// Package service defines the backend-agnostic interface for habit suggestions.
package service

// Song is a single suggested track.
type Song struct {
	ID     string
	Name   string
	Artist string // artist names joined with ", "
}
