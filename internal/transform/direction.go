package transform

import (
	"fuel-dispatch-dashboard/internal/domain"
	"strings"
)

// directionRule matches when any of its keywords appears in the lowercased
// instruction text and, if set, the side keyword appears as well.
type directionRule struct {
	group string
	any   []string
	side  string
	dir   domain.DirectionType
}

func (r directionRule) match(text string) bool {
	if r.side != "" && !strings.Contains(text, r.side) {
		return false
	}
	for _, kw := range r.any {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var uturn = []string{"u-turn", "uturn", "u turn"}

// Evaluated top to bottom, first match wins. Within a side group the specific
// maneuvers come before the plain turn so "make a u-turn right" is not a turn.
var directionRules = []directionRule{
	{group: "destination", any: []string{"destination", "arrive"}, dir: domain.Destination},

	{group: "right", any: []string{"sharp right"}, dir: domain.SharpRight},
	{group: "right", any: uturn, side: "right", dir: domain.UTurnRight},
	{group: "right", any: []string{"exit"}, side: "right", dir: domain.ExitRight},
	{group: "right", any: []string{"merge"}, side: "right", dir: domain.MergeRight},
	{group: "right", any: []string{"turn right", "right onto"}, dir: domain.TurnRight},

	{group: "left", any: []string{"sharp left"}, dir: domain.SharpLeft},
	{group: "left", any: uturn, side: "left", dir: domain.UTurnLeft},
	{group: "left", any: []string{"exit"}, side: "left", dir: domain.ExitLeft},
	{group: "left", any: []string{"merge"}, side: "left", dir: domain.MergeLeft},
	{group: "left", any: []string{"turn left", "left onto"}, dir: domain.TurnLeft},

	// A roundabout exit is still a roundabout.
	{group: "roundabout", any: []string{"roundabout"}, dir: domain.Roundabout},

	// No side given: assume right-hand traffic.
	{group: "sideless", any: uturn, dir: domain.UTurnRight},
	{group: "sideless", any: []string{"exit"}, dir: domain.ExitRight},
	{group: "sideless", any: []string{"merge"}, dir: domain.MergeRight},
	{group: "straight", any: []string{"continue", "straight", "head"}, dir: domain.Straight},
}

// Direction derives the maneuver category of an instruction from its text.
func Direction(text string) domain.DirectionType {
	lower := strings.ToLower(text)
	for _, r := range directionRules {
		if r.match(lower) {
			return r.dir
		}
	}
	return domain.Straight
}
