package parser

// Command is one line of moderator input. Exactly one field is set.
type Command struct {
	Night     *NightCmd     `parser:"( @@"`
	Day       *DayCmd       `parser:"| @@"`
	Resolve   *ResolveCmd   `parser:"| @@"`
	Act       *ActCmd       `parser:"| @@"`
	Can       *CanCmd       `parser:"| @@"`
	Execute   *ExecuteCmd   `parser:"| @@"`
	Shoot     *ShootCmd     `parser:"| @@"`
	Vote      *VoteCmd      `parser:"| @@"`
	Tally     *TallyCmd     `parser:"| @@"`
	Successor *SuccessorCmd `parser:"| @@"`
	Status    *StatusCmd    `parser:"| @@"`
	Win       *WinCmd       `parser:"| @@"`
	Roles     *RolesCmd     `parser:"| @@"`
	Help      *HelpCmd      `parser:"| @@ )"`
}

// ActorExpr maps parsing the "by: Someone" block
type ActorExpr struct {
	Keyword string `parser:"\"by\" \":\""`
	Name    string `parser:"@(Ident|Int)"`
}

// TargetsExpr is "to: a [and: b]*".
type TargetsExpr struct {
	IDs []string `parser:"\"to\" \":\" @(Ident|Int) ( \"and\" \":\" @(Ident|Int) )*"`
}

// NightCmd starts the next night.
type NightCmd struct {
	Keyword string `parser:"@\"night\""`
}

// DayCmd starts the day after a resolved night.
type DayCmd struct {
	Keyword string `parser:"@\"day\""`
}

// ResolveCmd resolves the queued night actions.
type ResolveCmd struct {
	Keyword string `parser:"@\"resolve\""`
}

// ActionExpr is the common tail of act and can: "by: X kind [sub] [to: ...]".
type ActionExpr struct {
	Actor   *ActorExpr   `parser:"@@"`
	Kind    string       `parser:"@Ident"`
	SubKind string       `parser:"@Ident?"`
	Targets *TargetsExpr `parser:"@@?"`
}

// TargetIDs returns the parsed targets, or nil when none were given.
func (a *ActionExpr) TargetIDs() []string {
	if a.Targets == nil {
		return nil
	}
	return a.Targets.IDs
}

// ActCmd submits a night action.
type ActCmd struct {
	Keyword string      `parser:"@\"act\""`
	Action  *ActionExpr `parser:"@@"`
}

// CanCmd asks whether a night action would be accepted, without queueing it.
type CanCmd struct {
	Keyword string      `parser:"@\"can\""`
	Action  *ActionExpr `parser:"@@"`
}

// ExecuteCmd carries out the day's execution.
type ExecuteCmd struct {
	Keyword string `parser:"@\"execute\""`
	Target  string `parser:"@(Ident|Int)"`
}

// ShootCmd spends a pending revenge shot on a player or the sky.
type ShootCmd struct {
	Keyword string       `parser:"@\"shoot\""`
	Actor   *ActorExpr   `parser:"@@"`
	Sky     bool         `parser:"( @\"sky\""`
	Target  *TargetsExpr `parser:"| @@ )"`
}

// VoteCmd records one day vote.
type VoteCmd struct {
	Keyword string       `parser:"@\"vote\""`
	Actor   *ActorExpr   `parser:"@@"`
	Target  *TargetsExpr `parser:"@@"`
}

// TallyCmd counts the recorded votes.
type TallyCmd struct {
	Keyword string `parser:"@\"tally\""`
}

// SuccessorCmd hands a dead player's vote weight to a successor.
type SuccessorCmd struct {
	Keyword string       `parser:"@\"successor\""`
	Actor   *ActorExpr   `parser:"@@"`
	Target  *TargetsExpr `parser:"@@"`
}

// StatusCmd shows the table or one player.
type StatusCmd struct {
	Keyword string `parser:"@\"status\""`
	Player  string `parser:"@(Ident|Int)?"`
}

// WinCmd evaluates the win conditions.
type WinCmd struct {
	Keyword string `parser:"@\"win\""`
}

// RolesCmd lists the catalogue, optionally for one team.
type RolesCmd struct {
	Keyword string `parser:"@\"roles\""`
	Team    string `parser:"@Ident?"`
}

// HelpCmd provides context-aware guidance
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Command string `parser:"@(Ident|Keyword)?"`
}
