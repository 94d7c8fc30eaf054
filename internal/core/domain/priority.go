package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Priorities lists the accepted values from lowest to highest rank.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority accepts low, medium or high (case-insensitive). An empty value yields PriorityMedium.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(strings.ToLower(strings.TrimSpace(value)))

	if normalized == "" {
		return PriorityMedium, nil
	}

	if _, ok := priorityRanks[normalized]; !ok {
		return "", fmt.Errorf("%w: %q must be one of low, medium, high", ErrInvalidPriority, value)
	}

	return normalized, nil
}

func (p Priority) IsValid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// Rank orders priorities: low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	return priorityRanks[p]
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) Equals(other Priority) bool {
	return p == other
}
