package command

import (
	"strings"

	"github.com/calebmoore/clipfactory/internal/notify"
)

// knownCommands is the static completion vocabulary, lexically sorted.
// Multi-token commands appear fully expanded so completion can walk across
// token boundaries.
var knownCommands = []string{
	"buttons disable",
	"buttons enable",
	"buttons off",
	"buttons on",
	"buy autoclipper",
	"buy factory",
	"buy wire",
	"fabricate",
	"help",
	"launch marketing",
	"optimize",
	"set price",
	"status",
}

// Complete implements prefix completion over the fixed command list. It
// returns the (possibly extended) input; when several completions remain
// and no progress is possible, the options are reported through the sink
// instead.
func (i *Interpreter) Complete(input string) string {
	if input == "" {
		return withTrailingSpace(knownCommands[0])
	}

	lower := strings.ToLower(input)
	var matches []string
	for _, cmd := range knownCommands {
		if strings.HasPrefix(cmd, lower) {
			matches = append(matches, cmd)
		}
	}

	switch len(matches) {
	case 0:
		return input
	case 1:
		return withTrailingSpace(matches[0])
	}

	// The operator finished a token and wants the next one: show choices.
	if strings.HasSuffix(input, " ") {
		i.reportOptions(matches)
		return input
	}

	lcp := longestCommonPrefix(matches)
	if len(lcp) > len(lower) {
		// Do not complete past an ambiguous token: stop just after the last
		// full token the completions agree on.
		if idx := strings.LastIndex(lcp, " "); idx >= 0 {
			lcp = lcp[:idx+1]
		}
		if len(lcp) > len(lower) {
			return lcp
		}
	}

	i.reportOptions(matches)
	return input
}

func (i *Interpreter) reportOptions(options []string) {
	i.sink.Notify(notify.Notification{
		Channel: notify.ChannelSystem,
		Message: "options: " + strings.Join(options, ", "),
	})
}

func withTrailingSpace(s string) string {
	if strings.HasSuffix(s, " ") {
		return s
	}
	return s + " "
}

func longestCommonPrefix(items []string) string {
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
