package rules

// ActorContext describes the player whose trigger is being checked.
type ActorContext struct {
	ID   string
	Role string
	Team string
	Used []string
}

// TriggerContext is the snapshot of game state exposed to trigger expressions.
type TriggerContext struct {
	Night      int
	AliveRoles []string
	DeadRoles  []string
	Actor      ActorContext
}

// Vars converts the snapshot into CEL activation variables.
func (tc TriggerContext) Vars() map[string]any {
	used := tc.Actor.Used
	if used == nil {
		used = []string{}
	}
	return map[string]any{
		"night":       int64(tc.Night),
		"alive_count": int64(len(tc.AliveRoles)),
		"alive_roles": nonNil(tc.AliveRoles),
		"dead_roles":  nonNil(tc.DeadRoles),
		"actor": map[string]any{
			"id":   tc.Actor.ID,
			"role": tc.Actor.Role,
			"team": tc.Actor.Team,
			"used": used,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
