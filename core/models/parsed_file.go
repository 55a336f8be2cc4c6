package models

import "time"

// ParsedFile is the analysis result for one script.
type ParsedFile struct {
	Path      string
	Imports   ImportSet
	Framework GUIFramework
	ParsedAt  time.Time
}
