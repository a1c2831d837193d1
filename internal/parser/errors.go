package parser

import (
	"fmt"
	"strings"
)

// Usage maps each command word to its syntax.
var Usage = map[string]string{
	"night":     "night",
	"resolve":   "resolve",
	"day":       "day",
	"act":       "act by: Player <kind> [sub_kind] [to: Target [and: Target]*]",
	"can":       "can by: Player <kind> [sub_kind] [to: Target [and: Target]*]",
	"execute":   "execute Player",
	"shoot":     "shoot by: Hunter <to: Target | sky>",
	"vote":      "vote by: Voter to: Target",
	"tally":     "tally",
	"successor": "successor by: DeadPlayer to: Successor",
	"status":    "status [Player]",
	"win":       "win",
	"roles":     "roles [team]",
	"help":      "help [command]",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.ToLower(strings.Fields(input)[0])
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}
	return fmt.Errorf("I wasn't able to understand your command (try help): %w", err)
}
