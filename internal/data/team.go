package data

import "strings"

// Team is the coarse alignment a role belongs to.
type Team string

const (
	TeamVillager Team = "villager"
	TeamWerewolf Team = "werewolf"
	TeamVampire  Team = "vampire"
	TeamNeutral  Team = "neutral"
	TeamUnknown  Team = ""
)

var teamMap = map[string]Team{
	"villager": TeamVillager,
	"werewolf": TeamWerewolf,
	"vampire":  TeamVampire,
	"neutral":  TeamNeutral,
}

// ParseTeam converts a string into a Team, returning TeamUnknown for anything else.
func ParseTeam(s string) Team {
	if val, ok := teamMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return TeamUnknown
}

// Teams lists every known team in a stable order.
func Teams() []Team {
	return []Team{TeamVillager, TeamWerewolf, TeamVampire, TeamNeutral}
}

// IsKillingTeam reports whether the team hunts at night and therefore opposes the village.
func (t Team) IsKillingTeam() bool {
	return t == TeamWerewolf || t == TeamVampire
}

func (t Team) String() string { return string(t) }
