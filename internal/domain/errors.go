package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when the loader yields no observations.
var ErrEmptyDataset = errors.New("dataset has no observations")

// MissingColumnError reports a required input column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// MalformedLatitudeError reports a latitude label that cannot be classified.
type MalformedLatitudeError struct {
	Label string
}

func (e *MalformedLatitudeError) Error() string {
	return fmt.Sprintf("malformed latitude label %q", e.Label)
}
