package workflow

import (
	"errors"
	"strings"
)

var ErrInvalidPriority = errors.New("invalid priority value")

type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// ParsePriority accepts Normal or High in any letter case. An empty value
// means Normal, which is what the backend assumes as well.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return PriorityNormal, nil
	case "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	}

	return "", ErrInvalidPriority
}

func Priorities() []Priority {
	return []Priority{PriorityNormal, PriorityHigh}
}
