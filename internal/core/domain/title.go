package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinTitleLength = 2
	MaxTitleLength = 255
)

// Title is a trimmed task title between MinTitleLength and MaxTitleLength characters.
type Title struct {
	value string
}

func NewTitle(value string) (Title, error) {
	trimmed := strings.TrimSpace(value)
	length := utf8.RuneCountInString(trimmed)

	if length < MinTitleLength || length > MaxTitleLength {
		return Title{}, fmt.Errorf("%w: must be between %d and %d characters, got %d",
			ErrInvalidTitle, MinTitleLength, MaxTitleLength, length)
	}

	return Title{value: trimmed}, nil
}

func (t Title) String() string {
	return t.value
}

func (t Title) IsBlank() bool {
	return strings.TrimSpace(t.value) == ""
}

func (t Title) Equals(other Title) bool {
	return t.value == other.value
}
