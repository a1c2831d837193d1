package engine

import "strings"

// Status is a bitmask of player status flags.
type Status uint16

const (
	StatusAlive Status = 1 << iota
	StatusProtected
	StatusSilenced
	StatusExiled
	StatusBlessed
	StatusBitten
	StatusPoisoned
	StatusHealed
)

// nightTransient are cleared when a new night starts. Blessing is permanent.
const nightTransient = StatusProtected | StatusBitten | StatusPoisoned | StatusHealed

// dayTransient are cleared once the day they applied to is over.
const dayTransient = StatusSilenced | StatusExiled

var statusNames = []struct {
	flag Status
	name string
}{
	{StatusAlive, "alive"},
	{StatusProtected, "protected"},
	{StatusSilenced, "silenced"},
	{StatusExiled, "exiled"},
	{StatusBlessed, "blessed"},
	{StatusBitten, "bitten"},
	{StatusPoisoned, "poisoned"},
	{StatusHealed, "healed"},
}

func (s Status) Has(flag Status) bool { return s&flag == flag }

func (s Status) Add(flag Status) Status { return s | flag }

func (s Status) Remove(flag Status) Status { return s &^ flag }

func (s Status) String() string {
	var parts []string
	for _, n := range statusNames {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "dead"
	}
	return strings.Join(parts, ",")
}
