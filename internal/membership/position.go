package membership

// Position is the pitch role a player occupies when entering a quarter.
type Position string

const (
	PositionGK Position = "GK"
	// Defense
	PositionSW  Position = "SW"
	PositionCB  Position = "CB"
	PositionRB  Position = "RB"
	PositionRWB Position = "RWB"
	PositionLWB Position = "LWB"
	PositionLB  Position = "LB"
	// Midfield
	PositionAM Position = "AM"
	PositionLM Position = "LM"
	PositionCM Position = "CM"
	PositionRM Position = "RM"
	PositionDM Position = "DM"
	// Forward
	PositionCF  Position = "CF"
	PositionSS  Position = "SS"
	PositionLWF Position = "LWF"
	PositionRWF Position = "RWF"
)

var validPositions = map[Position]bool{
	PositionGK: true,
	PositionSW: true, PositionCB: true, PositionRB: true,
	PositionRWB: true, PositionLWB: true, PositionLB: true,
	PositionAM: true, PositionLM: true, PositionCM: true,
	PositionRM: true, PositionDM: true,
	PositionCF: true, PositionSS: true, PositionLWF: true, PositionRWF: true,
}

// Valid reports whether p is a known pitch position.
func (p Position) Valid() bool { return validPositions[p] }
