package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

var summaries = map[string]string{
	"night":     "Starts the next night.",
	"resolve":   "Resolves every queued night action.",
	"day":       "Starts the day after a resolved night.",
	"act":       "Queues a night action for a player.",
	"can":       "Checks whether a night action would be accepted.",
	"execute":   "Executes a player. One execution per day.",
	"shoot":     "Spends a hunter's pending shot.",
	"vote":      "Records a day vote.",
	"tally":     "Counts the day's votes.",
	"successor": "Names the successor of a dead player.",
	"status":    "Shows the game or one player.",
	"win":       "Evaluates the win conditions.",
	"roles":     "Lists the role catalogue.",
	"help":      "Shows available commands or detailed info on a specific one.",
}

// ExecuteHelp lists the commands, or the usage of one.
func ExecuteHelp(cmd *parser.HelpCmd) ([]engine.Event, error) {
	if cmd.Command != "" {
		name := strings.ToLower(cmd.Command)
		usage, ok := parser.Usage[name]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", cmd.Command)
		}
		return hint("%s\n  %s", usage, summaries[name]), nil
	}

	names := make([]string, 0, len(parser.Usage))
	for n := range parser.Usage {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, n := range names {
		sb.WriteString(fmt.Sprintf("\n  %-10s %s", n, summaries[n]))
	}
	return hint("%s", sb.String()), nil
}
