package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// Phase is the current turn structure of a game.
type Phase string

const (
	PhaseSetup Phase = "setup"
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
	PhaseOver  Phase = "over"
)

// Game is the public surface of the engine: one store and the components
// operating on it. A Game is not safe for concurrent use.
type Game struct {
	ID string

	catalogue *data.Catalogue
	store     *Store
	resolver  *Resolver
	passives  *PassiveHandler
	win       *WinEvaluator

	phase         Phase
	night         int
	day           int
	resolved      bool
	executedToday bool
	successions   map[string]bool
	final         WinResult
}

// NewGame validates the seating against the catalogue and builds a game in the setup phase.
func NewGame(id string, cat *data.Catalogue, reg *rules.Registry, seats []data.SeatAssignment) (*Game, error) {
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if seen[s.ID] {
			return nil, fmt.Errorf("player %s: %w", s.ID, ErrDuplicatePlayerID)
		}
		seen[s.ID] = true
		role, ok := cat.Role(s.Role)
		if !ok {
			return nil, fmt.Errorf("player %s role %s: %w", s.ID, s.Role, ErrUnknownRole)
		}
		if role.Passive != nil {
			if _, err := stageOf(role.Passive.Kind); err != nil {
				return nil, err
			}
		}
		if role.NightAction != nil && role.NightAction.Trigger != "" {
			if _, err := reg.Compile(role.NightAction.Trigger); err != nil {
				return nil, fmt.Errorf("role %s trigger: %w", role.ID, err)
			}
		}
	}

	store := NewStore(cat)
	store.Initialize(seats)
	passives := NewPassiveHandler(store, cat)
	return &Game{
		ID:          id,
		catalogue:   cat,
		store:       store,
		passives:    passives,
		resolver:    NewResolver(store, cat, reg, passives),
		win:         NewWinEvaluator(store, cat),
		phase:       PhaseSetup,
		successions: make(map[string]bool),
	}, nil
}

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) Night() int { return g.night }

func (g *Game) Day() int { return g.day }

// Resolved reports whether the current night has been resolved.
func (g *Game) Resolved() bool { return g.resolved }

// Catalogue returns the read-only role table the game was built with.
func (g *Game) Catalogue() *data.Catalogue { return g.catalogue }

// Players returns copies of every player in seating order.
func (g *Game) Players() []Player { return g.store.Players() }

// Player returns a copy of one player.
func (g *Game) Player(id string) (Player, bool) { return g.store.Player(id) }

// PendingActions returns the actions queued for the current night.
func (g *Game) PendingActions() []Action { return g.resolver.Queue() }

// PendingSuccessions lists dead players who may still name a successor.
func (g *Game) PendingSuccessions() []string {
	out := make([]string, 0, len(g.successions))
	for id := range g.successions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Winner returns the result that ended the game, if any.
func (g *Game) Winner() WinResult { return g.final }

func (g *Game) guard() error {
	if g.phase == PhaseOver {
		return ErrGameOver
	}
	return nil
}

// StartNightPhase moves the game into the next night.
func (g *Game) StartNightPhase() (*PhaseStart, error) {
	if err := g.guard(); err != nil {
		return nil, err
	}
	if g.phase == PhaseNight {
		return nil, fmt.Errorf("start night from %s: %w", g.phase, ErrWrongPhase)
	}
	g.night++
	g.phase = PhaseNight
	g.resolved = false
	g.store.ResetNightStatuses()

	start := &PhaseStart{Phase: PhaseNight, Number: g.night}
	g.tickDelayed(start)
	switch g.night {
	case 1:
		g.absorb(start, g.passives.ProcessFirstNight())
	case 3:
		g.absorb(start, g.passives.ProcessNightThree())
	}
	start.Win = g.settle()
	zap.L().Info("night started", zap.String("game_id", g.ID), zap.Int("night", g.night), zap.Strings("deaths", start.Deaths))
	return start, nil
}

// StartDayPhase moves a resolved night into the following day.
func (g *Game) StartDayPhase() (*PhaseStart, error) {
	if err := g.guard(); err != nil {
		return nil, err
	}
	if g.phase != PhaseNight {
		return nil, fmt.Errorf("start day from %s: %w", g.phase, ErrWrongPhase)
	}
	if !g.resolved {
		return nil, ErrNightUnresolved
	}
	g.day++
	g.phase = PhaseDay
	g.executedToday = false

	start := &PhaseStart{Phase: PhaseDay, Number: g.day}
	g.tickDelayed(start)
	start.Win = g.settle()
	zap.L().Info("day started", zap.String("game_id", g.ID), zap.Int("day", g.day), zap.Strings("deaths", start.Deaths))
	return start, nil
}

// tickDelayed finalises deferred deaths at a phase transition and cascades them.
func (g *Game) tickDelayed(start *PhaseStart) {
	for _, d := range g.store.ProcessDelayedDeaths() {
		start.Deaths = append(start.Deaths, d.PlayerID)
		g.absorb(start, g.passives.ProcessPlayerDeath(d.PlayerID, d.Cause))
	}
}

func (g *Game) absorb(start *PhaseStart, d DeathResult) {
	start.Deaths = append(start.Deaths, d.AdditionalDeaths...)
	start.Effects = append(start.Effects, d.Effects...)
	g.applyEffects(d.Effects)
}

// CanPerformAction checks an action against the current night without queueing it.
func (g *Game) CanPerformAction(actorID string, kind data.ActionKind, targets []string) Verdict {
	if g.phase == PhaseOver {
		return deny(CodeGameOver, "game is over")
	}
	if g.phase != PhaseNight || g.resolved {
		return deny(CodeWrongPhase, "actions are only accepted during an unresolved night")
	}
	return g.resolver.CanPerformAction(actorID, kind, targets, g.night)
}

// SubmitAction validates and queues a night action.
func (g *Game) SubmitAction(a Action) Verdict {
	if g.phase == PhaseOver {
		return deny(CodeGameOver, "game is over")
	}
	if g.phase != PhaseNight || g.resolved {
		return deny(CodeWrongPhase, "actions are only accepted during an unresolved night")
	}
	v := g.resolver.Submit(a, g.night)
	if !v.Allowed {
		zap.L().Debug("action rejected", zap.String("action", a.String()), zap.String("code", string(v.Code)), zap.String("reason", v.Reason))
	}
	return v
}

// ResolveNightPhase applies the queued actions once per night.
func (g *Game) ResolveNightPhase() (*NightResult, error) {
	if err := g.guard(); err != nil {
		return nil, err
	}
	if g.phase != PhaseNight || g.resolved {
		return nil, fmt.Errorf("resolve night: %w", ErrWrongPhase)
	}
	// silence and exile from the previous night end here
	g.store.ResetDayStatuses()
	res := g.resolver.Resolve(g.night)
	g.resolved = true
	g.applyEffects(res.Effects)
	res.Win = g.settle()
	zap.L().Info("night resolved",
		zap.String("game_id", g.ID), zap.Int("night", g.night),
		zap.Strings("deaths", res.Deaths), zap.Strings("saved", res.Saved))
	return res, nil
}

// ExecutePlayer performs the day's single execution.
func (g *Game) ExecutePlayer(id string) (*ExecutionResult, error) {
	if err := g.guard(); err != nil {
		return nil, err
	}
	if g.phase != PhaseDay {
		return nil, fmt.Errorf("execute %s: %w", id, ErrWrongPhase)
	}
	if g.executedToday {
		return nil, ErrAlreadyExecuted
	}
	if !g.store.Exists(id) {
		return nil, fmt.Errorf("execute %s: %w", id, ErrUnknownPlayer)
	}
	if !g.store.IsAlive(id) {
		return nil, fmt.Errorf("execute %s: %w", id, ErrPlayerDead)
	}
	res := g.passives.ProcessExecution(id)
	g.executedToday = true
	g.applyEffects(res.Effects)
	res.Win = g.settle()
	zap.L().Info("execution", zap.String("game_id", g.ID), zap.String("player_id", id),
		zap.Bool("survived", res.Survived), zap.Strings("deaths", res.Deaths))
	return &res, nil
}

// HunterShoot spends a pending revenge shot. An empty target shoots the sky.
func (g *Game) HunterShoot(hunterID, targetID string) (*ShotResult, error) {
	if err := g.guard(); err != nil {
		return nil, err
	}
	res, err := g.passives.ExecuteHunterShot(hunterID, targetID)
	if err != nil {
		return nil, err
	}
	g.applyEffects(res.Effects)
	res.Win = g.settle()
	return &res, nil
}

// TallyVotes counts a day vote. Votes map voter to target; dead, silenced,
// exiled or unknown voters and dead targets are ignored. Each vote counts
// the voter's weight. A tie yields no target.
func (g *Game) TallyVotes(votes map[string]string) TallyResult {
	res := TallyResult{Counts: map[string]int{}}
	for voter, target := range votes {
		p, ok := g.store.Player(voter)
		if !ok || !p.Alive() || p.Status.Has(StatusSilenced) || p.Status.Has(StatusExiled) {
			continue
		}
		if !g.store.IsAlive(target) {
			continue
		}
		res.Counts[target] += p.VoteWeight
	}
	best := 0
	for target, n := range res.Counts {
		switch {
		case n > best:
			best, res.TargetID, res.Tie = n, target, false
		case n == best:
			res.Tie = true
		}
	}
	if res.Tie {
		res.TargetID = ""
	}
	return res
}

// AppointSuccessor passes a dead player's vote weight to a living successor, once.
func (g *Game) AppointSuccessor(deadID, successorID string) error {
	if err := g.guard(); err != nil {
		return err
	}
	if !g.successions[deadID] {
		return fmt.Errorf("successor for %s: %w", deadID, ErrNoSuccession)
	}
	if !g.store.Exists(successorID) {
		return fmt.Errorf("successor %s: %w", successorID, ErrUnknownPlayer)
	}
	if !g.store.IsAlive(successorID) {
		return fmt.Errorf("successor %s: %w", successorID, ErrPlayerDead)
	}
	dead, _ := g.store.Player(deadID)
	g.store.SetVoteWeight(successorID, dead.VoteWeight)
	delete(g.successions, deadID)
	return nil
}

// CheckWinConditions evaluates the current store.
func (g *Game) CheckWinConditions() WinResult { return g.win.Check() }

// CheckPlayerWin reports whether the player is on the winning side.
func (g *Game) CheckPlayerWin(id string) bool { return g.win.CheckPlayerWin(id) }

// applyEffects performs the role changes the passive handler only signals.
func (g *Game) applyEffects(effects []Effect) {
	for _, e := range effects {
		switch e.Kind {
		case EffectCopyRole:
			if !g.store.IsAlive(e.PlayerID) {
				continue
			}
			g.store.TransformPlayer(e.PlayerID, e.RoleID, e.Team)
			g.store.SetCopyTarget(e.PlayerID, "")
		case EffectConvert:
			if p, ok := g.store.Player(e.PlayerID); ok && p.Alive() {
				g.store.TransformPlayer(p.ID, p.RoleID, e.Team)
			}
		case EffectSuccession:
			g.successions[e.PlayerID] = true
		}
	}
}

// settle checks for a winner and ends the game when one is found.
func (g *Game) settle() WinResult {
	w := g.win.Check()
	if w.HasWinner {
		g.phase = PhaseOver
		g.final = w
		zap.L().Info("game over", zap.String("game_id", g.ID), zap.String("winner", w.Winner), zap.String("condition", w.Condition))
	}
	return w
}
