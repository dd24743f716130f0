package models

// Prompt is a writing prompt scheduled for one calendar day.
type Prompt struct {
	ID          string
	DisplayDate string
	Text        string
}
