package model

import "fmt"

// Movie is a film in the catalog.  Duration is expressed in minutes.
// Movies are never edited after creation.
type Movie struct {
	ID          int
	Title       string
	Duration    int // minutes
	Rating      string
	Description string
}

func (m Movie) String() string {
	return fmt.Sprintf("%s (%s) - %d min", m.Title, m.Rating, m.Duration)
}
