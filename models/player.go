package models

import "time"

// PositionPitcher marks players eligible to start on the mound
const PositionPitcher = "P"

// Player is a registered member of the team
type Player struct {
	ID         string    `json:"id" toml:"id"`
	Name       string    `json:"name" toml:"name"`
	Number     int       `json:"number" toml:"number"`
	Position   string    `json:"position" toml:"position"`
	BatThrow   string    `json:"bat_throw" toml:"bat_throw"` // e.g. "R/R", "R/L"
	SkillBonus float64   `json:"skill_bonus,omitempty" toml:"skill_bonus"`
	CreatedAt  time.Time `json:"created_at" toml:"-"`
}

// IsPitcher reports whether the player can be picked as a starting pitcher
func (p Player) IsPitcher() bool {
	return p.Position == PositionPitcher
}

// Roster is the full list of players available to a team
type Roster struct {
	TeamName string   `json:"team_name"`
	Players  []Player `json:"players"`
}

// Pitchers returns the players at position P, in roster order
func (r Roster) Pitchers() []Player {
	var pitchers []Player
	for _, p := range r.Players {
		if p.IsPitcher() {
			pitchers = append(pitchers, p)
		}
	}
	return pitchers
}

// Find returns the player with the given ID
func (r Roster) Find(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// FindByName returns the first player with the given name
func (r Roster) FindByName(name string) (Player, bool) {
	for _, p := range r.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}
