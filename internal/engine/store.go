package engine

import (
	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

// Player is the mutable per-player state. Values returned by the Store are copies.
type Player struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	RoleID        string          `json:"role_id"`
	Team          data.Team       `json:"team"`
	Seat          int             `json:"seat"`
	Status        Status          `json:"status"`
	LoverID       string          `json:"lover_id,omitempty"`
	TwinID        string          `json:"twin_id,omitempty"`
	InCult        bool            `json:"in_cult"`
	LastProtected string          `json:"last_protected,omitempty"`
	LastSilenced  string          `json:"last_silenced,omitempty"`
	Used          map[string]bool `json:"used,omitempty"`
	KilledBy      string          `json:"killed_by,omitempty"`
	Marked        bool            `json:"marked"`
	DeathDelay    int             `json:"death_delay"`
	MarkCause     string          `json:"mark_cause,omitempty"`
	VoteWeight    int             `json:"vote_weight"`
	CopyTarget    string          `json:"copy_target,omitempty"`
	MarkedTargets []string        `json:"marked_targets,omitempty"`
	Infected      bool            `json:"infected"`
	PendingShot   bool            `json:"pending_shot"`
}

func (p Player) Alive() bool { return p.Status.Has(StatusAlive) }

// HasUsed reports whether the ability key was consumed.
func (p Player) HasUsed(key string) bool { return p.Used[key] }

func (p Player) clone() Player {
	c := p
	if p.Used != nil {
		c.Used = make(map[string]bool, len(p.Used))
		for k, v := range p.Used {
			c.Used[k] = v
		}
	}
	if p.MarkedTargets != nil {
		c.MarkedTargets = append([]string(nil), p.MarkedTargets...)
	}
	return c
}

// Store owns every player of one game. All mutation goes through its setters;
// setters given an unknown id log a warning and do nothing.
type Store struct {
	catalogue *data.Catalogue
	players   map[string]*Player
	seating   []string

	werewolfKillBonus int
	scripted          map[string]bool
}

// NewStore creates an empty store bound to the catalogue.
func NewStore(cat *data.Catalogue) *Store {
	return &Store{
		catalogue: cat,
		players:   make(map[string]*Player),
		scripted:  make(map[string]bool),
	}
}

// Initialize resets the store to the initial lifecycle values for the given seating.
func (s *Store) Initialize(seats []data.SeatAssignment) {
	s.players = make(map[string]*Player, len(seats))
	s.seating = make([]string, 0, len(seats))
	s.werewolfKillBonus = 0
	s.scripted = make(map[string]bool)

	var twins []string
	for i, seat := range seats {
		role, _ := s.catalogue.Role(seat.Role)
		name := seat.Name
		if name == "" {
			name = seat.ID
		}
		p := &Player{
			ID:         seat.ID,
			Name:       name,
			RoleID:     seat.Role,
			Team:       role.Team,
			Seat:       i,
			Status:     StatusAlive,
			Used:       make(map[string]bool),
			VoteWeight: 1,
			InCult:     role.CultLeader,
		}
		if role.DoubleVote {
			p.VoteWeight = 2
		}
		if role.Twin {
			twins = append(twins, seat.ID)
		}
		s.players[seat.ID] = p
		s.seating = append(s.seating, seat.ID)
	}
	if len(twins) >= 2 {
		s.CreateTwins(twins[0], twins[1])
	}
}

func (s *Store) update(id, op string, fn func(p *Player)) {
	p, ok := s.players[id]
	if !ok {
		zap.L().Warn("ignoring update for unknown player", zap.String("op", op), zap.String("player_id", id))
		return
	}
	fn(p)
}

// Player returns a copy of the player state.
func (s *Store) Player(id string) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return p.clone(), true
}

// Exists reports whether id is a player of this game.
func (s *Store) Exists(id string) bool {
	_, ok := s.players[id]
	return ok
}

// IsAlive reports whether id exists and is alive.
func (s *Store) IsAlive(id string) bool {
	p, ok := s.players[id]
	return ok && p.Alive()
}

// Players returns copies of every player in seating order.
func (s *Store) Players() []Player {
	out := make([]Player, 0, len(s.seating))
	for _, id := range s.seating {
		out = append(out, s.players[id].clone())
	}
	return out
}

// Living returns copies of the living players in seating order.
func (s *Store) Living() []Player {
	var out []Player
	for _, id := range s.seating {
		if p := s.players[id]; p.Alive() {
			out = append(out, p.clone())
		}
	}
	return out
}

// Role returns the catalogue entry of the player's current role.
func (s *Store) Role(id string) (data.Role, bool) {
	p, ok := s.players[id]
	if !ok {
		return data.Role{}, false
	}
	return s.catalogue.Role(p.RoleID)
}

// --- status setters ---

func (s *Store) SetProtected(id string) {
	s.update(id, "protect", func(p *Player) { p.Status = p.Status.Add(StatusProtected) })
}

func (s *Store) SetBlessed(id string) {
	s.update(id, "bless", func(p *Player) { p.Status = p.Status.Add(StatusBlessed) })
}

func (s *Store) SetSilenced(id string) {
	s.update(id, "silence", func(p *Player) { p.Status = p.Status.Add(StatusSilenced) })
}

func (s *Store) SetExiled(id string) {
	s.update(id, "exile", func(p *Player) { p.Status = p.Status.Add(StatusExiled) })
}

func (s *Store) SetBitten(id string) {
	s.update(id, "bite", func(p *Player) { p.Status = p.Status.Add(StatusBitten) })
}

func (s *Store) SetPoisoned(id string) {
	s.update(id, "poison", func(p *Player) { p.Status = p.Status.Add(StatusPoisoned) })
}

// --- death ---

// MarkForDeath queues a death with the given delay. An existing mark keeps the shorter delay.
func (s *Store) MarkForDeath(id, cause string, delay int) {
	s.update(id, "mark", func(p *Player) {
		if !p.Alive() {
			return
		}
		if p.Marked && p.DeathDelay <= delay {
			return
		}
		p.Marked = true
		p.DeathDelay = delay
		p.MarkCause = cause
	})
}

// KillPlayer finalises a death. It returns false if the player was already dead or unknown.
func (s *Store) KillPlayer(id, cause string) bool {
	killed := false
	s.update(id, "kill", func(p *Player) {
		if !p.Alive() {
			return
		}
		p.Status = p.Status.Remove(StatusAlive)
		p.KilledBy = cause
		p.Marked = false
		p.DeathDelay = 0
		p.MarkCause = ""
		p.PendingShot = false
		killed = true
	})
	return killed
}

// SaveFromDeath cancels a pending mark. It returns false if there was nothing to cancel.
func (s *Store) SaveFromDeath(id string) bool {
	saved := false
	s.update(id, "save", func(p *Player) {
		if !p.Marked {
			return
		}
		p.Marked = false
		p.DeathDelay = 0
		p.MarkCause = ""
		p.Status = p.Status.Add(StatusHealed)
		saved = true
	})
	return saved
}

// FinalizeMarked kills every living player whose mark has no delay left,
// in seating order, and returns them with their cause.
func (s *Store) FinalizeMarked() []Death {
	var out []Death
	for _, id := range s.seating {
		p := s.players[id]
		if !p.Alive() || !p.Marked || p.DeathDelay > 0 {
			continue
		}
		cause := p.MarkCause
		if s.KillPlayer(id, cause) {
			out = append(out, Death{PlayerID: id, Cause: cause})
		}
	}
	return out
}

// ProcessDelayedDeaths ticks every deferred death and finalises those reaching zero.
func (s *Store) ProcessDelayedDeaths() []Death {
	var out []Death
	for _, id := range s.seating {
		p := s.players[id]
		if !p.Alive() || !p.Marked || p.DeathDelay == 0 {
			continue
		}
		p.DeathDelay--
		if p.DeathDelay == 0 {
			cause := p.MarkCause
			if s.KillPlayer(id, cause) {
				out = append(out, Death{PlayerID: id, Cause: cause})
			}
		}
	}
	return out
}

// Death is a finalised death and its cause.
type Death struct {
	PlayerID string `json:"player_id"`
	Cause    string `json:"cause"`
}

// --- relationships ---

// CreateLovers links two players. Links are set once and never replaced.
func (s *Store) CreateLovers(a, b string) bool {
	pa, okA := s.players[a]
	pb, okB := s.players[b]
	if !okA || !okB || a == b {
		zap.L().Warn("ignoring lovers for unknown player", zap.String("a", a), zap.String("b", b))
		return false
	}
	if pa.LoverID != "" || pb.LoverID != "" {
		return false
	}
	pa.LoverID, pb.LoverID = b, a
	return true
}

// CreateTwins links two players. Links are set once and never replaced.
func (s *Store) CreateTwins(a, b string) bool {
	pa, okA := s.players[a]
	pb, okB := s.players[b]
	if !okA || !okB || a == b {
		zap.L().Warn("ignoring twins for unknown player", zap.String("a", a), zap.String("b", b))
		return false
	}
	if pa.TwinID != "" || pb.TwinID != "" {
		return false
	}
	pa.TwinID, pb.TwinID = b, a
	return true
}

func (s *Store) AddToCult(id string) {
	s.update(id, "cult", func(p *Player) { p.InCult = true })
}

// TransformPlayer replaces the player's role and team in place.
func (s *Store) TransformPlayer(id, roleID string, team data.Team) {
	s.update(id, "transform", func(p *Player) {
		p.RoleID = roleID
		p.Team = team
	})
}

// SwapRoles exchanges role and team between two players.
func (s *Store) SwapRoles(a, b string) {
	pa, okA := s.players[a]
	pb, okB := s.players[b]
	if !okA || !okB {
		zap.L().Warn("ignoring swap for unknown player", zap.String("a", a), zap.String("b", b))
		return
	}
	pa.RoleID, pb.RoleID = pb.RoleID, pa.RoleID
	pa.Team, pb.Team = pb.Team, pa.Team
}

// --- abilities and history ---

func (s *Store) UseAbility(id, key string) {
	s.update(id, "use", func(p *Player) { p.Used[key] = true })
}

func (s *Store) SetVoteWeight(id string, weight int) {
	s.update(id, "vote_weight", func(p *Player) { p.VoteWeight = weight })
}

func (s *Store) SetLastProtected(id, target string) {
	s.update(id, "last_protected", func(p *Player) { p.LastProtected = target })
}

func (s *Store) SetLastSilenced(id, target string) {
	s.update(id, "last_silenced", func(p *Player) { p.LastSilenced = target })
}

// SetMarkedTargets replaces the actor's target list.
func (s *Store) SetMarkedTargets(id string, targets []string) {
	s.update(id, "marked_targets", func(p *Player) { p.MarkedTargets = append([]string(nil), targets...) })
}

// SetCopyTarget replaces the actor's copy designation. An empty target clears it.
func (s *Store) SetCopyTarget(id, target string) {
	s.update(id, "copy_target", func(p *Player) { p.CopyTarget = target })
}

func (s *Store) SetPendingShot(id string, pending bool) {
	s.update(id, "pending_shot", func(p *Player) { p.PendingShot = pending })
}

// InfectWerewolves flags every living werewolf so their next kill is blocked.
func (s *Store) InfectWerewolves() []string {
	var infected []string
	for _, id := range s.seating {
		p := s.players[id]
		if p.Alive() && p.Team == data.TeamWerewolf {
			p.Infected = true
			infected = append(infected, id)
		}
	}
	return infected
}

// CureInfection clears the infection flag once it has blocked a kill.
func (s *Store) CureInfection(id string) {
	s.update(id, "cure_infection", func(p *Player) { p.Infected = false })
}

// SetWerewolfKillBonus sets the number of extra werewolf kills for the next night.
func (s *Store) SetWerewolfKillBonus(n int) { s.werewolfKillBonus = n }

func (s *Store) WerewolfKillBonus() int { return s.werewolfKillBonus }

// --- phase resets ---

// ResetNightStatuses clears per-night flags. Blessing stays.
func (s *Store) ResetNightStatuses() {
	for _, p := range s.players {
		p.Status = p.Status.Remove(nightTransient)
	}
}

// ResetDayStatuses clears silence and exile, restoring voting eligibility.
func (s *Store) ResetDayStatuses() {
	for _, p := range s.players {
		p.Status = p.Status.Remove(dayTransient)
	}
}

// --- seating ---

// AdjacentPlayers returns the nearest living neighbour on each side of id,
// wrapping around the ring. A neighbour appearing on both sides is returned once.
func (s *Store) AdjacentPlayers(id string) []string {
	p, ok := s.players[id]
	n := len(s.seating)
	if !ok || n < 2 {
		return nil
	}
	var out []string
	for _, step := range []int{-1, 1} {
		for i := 1; i < n; i++ {
			cand := s.seating[((p.Seat+step*i)%n+n)%n]
			if cand == id {
				break
			}
			if s.players[cand].Alive() {
				if len(out) == 0 || out[0] != cand {
					out = append(out, cand)
				}
				break
			}
		}
	}
	return out
}

// --- scripted events ---

func (s *Store) scriptedFired(key string) bool { return s.scripted[key] }

func (s *Store) markScripted(key string) { s.scripted[key] = true }

// --- trigger snapshot ---

// roleLists returns the role ids of living and dead players in seating order.
func (s *Store) roleLists() (alive, dead []string) {
	for _, id := range s.seating {
		p := s.players[id]
		if p.Alive() {
			alive = append(alive, p.RoleID)
		} else {
			dead = append(dead, p.RoleID)
		}
	}
	return alive, dead
}
