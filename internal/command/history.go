package command

// History is an ordered record of submitted lines, newest first, with a
// browse cursor. Cursor -1 means "not browsing" and maps to an empty input
// buffer.
type History struct {
	entries []string
	cursor  int
}

// NewHistory returns an empty history with the cursor parked.
func NewHistory() History {
	return History{cursor: -1}
}

// Push records a submitted line at the front.
func (h *History) Push(line string) {
	h.entries = append([]string{line}, h.entries...)
}

// Older steps toward the oldest entry and returns the entry under the
// cursor. The cursor caps at the oldest entry.
func (h *History) Older() string {
	if len(h.entries) == 0 {
		return ""
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.entries[h.cursor]
}

// Newer steps toward the newest entry. Stepping past the newest parks the
// cursor at -1 and returns the empty buffer.
func (h *History) Newer() string {
	if h.cursor > -1 {
		h.cursor--
	}
	if h.cursor == -1 {
		return ""
	}
	return h.entries[h.cursor]
}

// ResetCursor parks the cursor; the next Older starts from the newest entry.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// Len reports how many lines are recorded.
func (h *History) Len() int {
	return len(h.entries)
}

// Older and Newer are surfaced on the interpreter for input drivers.

func (i *Interpreter) HistoryOlder() string { return i.history.Older() }
func (i *Interpreter) HistoryNewer() string { return i.history.Newer() }
