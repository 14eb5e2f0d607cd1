package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty is the closed, ordered difficulty scale shared by topics and questions.
type Difficulty int

const (
	Beginner Difficulty = iota + 1
	Intermediate
	Advanced
)

// Difficulties lists every level in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// Label is the display label.
func (d Difficulty) Label() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// Color is the badge color for the level.
func (d Difficulty) Color() string {
	switch d {
	case Beginner:
		return "#43e97b"
	case Intermediate:
		return "#f8b739"
	case Advanced:
		return "#fa709a"
	default:
		return "#667eea"
	}
}

func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Advanced
}

// ParseDifficulty maps a label (case-insensitive) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "advanced":
		return Advanced, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
}

// MarshalText encodes the zero value as an empty string.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Difficulty) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: difficulty must be a string: %w", node.Line, err)
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}
