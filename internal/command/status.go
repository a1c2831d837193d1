package command

import (
	"fmt"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

// ExecuteStatus shows where the game stands and what the moderator is
// waiting on, or the full state of one player.
func ExecuteStatus(cmd *parser.StatusCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if cmd.Player != "" {
		p, err := requirePlayer(g, cmd.Player)
		if err != nil {
			return nil, err
		}
		return hint("%s", playerDetail(p)), nil
	}

	var sb strings.Builder
	switch g.Phase() {
	case engine.PhaseSetup:
		sb.WriteString("Setup. Start the first night with: night")
	case engine.PhaseNight:
		if g.Resolved() {
			sb.WriteString(fmt.Sprintf("Night %d resolved. Start the day with: day", g.Night()))
		} else {
			sb.WriteString(fmt.Sprintf("Night %d. %d action(s) queued; resolve when ready.", g.Night(), len(g.PendingActions())))
		}
	case engine.PhaseDay:
		sb.WriteString(fmt.Sprintf("Day %d.", g.Day()))
	case engine.PhaseOver:
		sb.WriteString(fmt.Sprintf("Game over: %s.", g.Winner()))
	}

	for _, a := range g.PendingActions() {
		sb.WriteString(fmt.Sprintf("\n├─ queued: %s", a))
	}
	for _, p := range g.Players() {
		if p.PendingShot {
			sb.WriteString(fmt.Sprintf("\n├─ %s may shoot", p.ID))
		}
	}
	for _, id := range g.PendingSuccessions() {
		sb.WriteString(fmt.Sprintf("\n├─ %s may name a successor", id))
	}
	for _, p := range g.Players() {
		sb.WriteString(fmt.Sprintf("\n├─ %-12s %-14s %-9s %s", describe(p), p.RoleID, p.Team, p.Status))
	}
	return hint("%s", sb.String()), nil
}

func playerDetail(p engine.Player) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s (%s), %s", describe(p), p.RoleID, p.Team, p.Status))
	if !p.Alive() && p.KilledBy != "" {
		sb.WriteString(fmt.Sprintf("\n├─ killed by %s", p.KilledBy))
	}
	if p.LoverID != "" {
		sb.WriteString(fmt.Sprintf("\n├─ lover: %s", p.LoverID))
	}
	if p.TwinID != "" {
		sb.WriteString(fmt.Sprintf("\n├─ twin: %s", p.TwinID))
	}
	if p.InCult {
		sb.WriteString("\n├─ in the cult")
	}
	if len(p.MarkedTargets) > 0 {
		sb.WriteString(fmt.Sprintf("\n├─ targets: %s", strings.Join(p.MarkedTargets, ", ")))
	}
	if p.VoteWeight != 1 {
		sb.WriteString(fmt.Sprintf("\n├─ vote weight: %d", p.VoteWeight))
	}
	if p.Marked {
		sb.WriteString(fmt.Sprintf("\n├─ dies in %d phase(s) (%s)", p.DeathDelay, p.MarkCause))
	}
	return sb.String()
}

// ExecuteWin evaluates the win conditions without changing the game.
func ExecuteWin(cmd *parser.WinCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	w := g.CheckWinConditions()
	if !w.HasWinner {
		return hint("%s", w), nil
	}
	return hint("%s: %s", w, strings.Join(w.Players, ", ")), nil
}

// ExecuteRoles lists the catalogue, optionally filtered to one team.
func ExecuteRoles(cmd *parser.RolesCmd, cat *data.Catalogue) ([]engine.Event, error) {
	ids := cat.IDs()
	if cmd.Team != "" {
		team := data.ParseTeam(cmd.Team)
		if team == data.TeamUnknown {
			return nil, fmt.Errorf("unknown team %q", cmd.Team)
		}
		ids = cat.ByTeam(team)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d role(s):", len(ids)))
	for _, id := range ids {
		r, _ := cat.Role(id)
		sb.WriteString(fmt.Sprintf("\n├─ %-16s %-9s %s", r.ID, r.Team, r.Description))
	}
	return hint("%s", sb.String()), nil
}
