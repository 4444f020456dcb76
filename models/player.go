package models

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Position is one of F (forward), D (defense) or G (goalie).
type Position string

const (
	PositionForward Position = "F"
	PositionDefense Position = "D"
	PositionGoalie  Position = "G"
)

// Player identity is the ID; the name is a display and import-matching
// attribute. CSV feeds speak names and are resolved to IDs during ingest.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position Position  `json:"position"`
	Team     string    `json:"team,omitempty"`
	Box      string    `json:"box,omitempty"`
}

var boxPattern = regexp.MustCompile(`^(B([1-9]|10)|G1|G2|BONUS)$`)

// NormalizePosition maps free-text position codes onto {F, D, G}:
// anything starting with G is a goalie, with D a defenseman, else a forward.
func NormalizePosition(raw string) Position {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(v, "G"):
		return PositionGoalie
	case strings.HasPrefix(v, "D"):
		return PositionDefense
	default:
		return PositionForward
	}
}

// NormalizeBox upper-cases and validates a box tag against the fixed
// whitelist (B1..B10, G1, G2, BONUS). Anything else becomes the empty tag.
func NormalizeBox(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if boxPattern.MatchString(v) {
		return v
	}
	return ""
}

// NormalizeTeam upper-cases a free-text team code.
func NormalizeTeam(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
