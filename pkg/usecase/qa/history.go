package qa

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation entry
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DefaultHistoryLimit is the number of conversation turns retained and
// supplied to the model for continuity.
const DefaultHistoryLimit = 10

// History is a bounded conversation log. Appending beyond the limit discards
// the oldest turns first, so the window always holds the most recent turns
// in chronological order.
type History struct {
	limit int
	turns []Turn
}

// NewHistory creates a bounded history. limit <= 0 falls back to
// DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append adds a turn and trims the window to the limit
func (h *History) Append(role Role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content})
	if len(h.turns) > h.limit {
		h.turns = h.turns[len(h.turns)-h.limit:]
	}
}

// Turns returns a copy of the retained turns, oldest first
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of retained turns
func (h *History) Len() int {
	return len(h.turns)
}

// Clear discards all turns
func (h *History) Clear() {
	h.turns = nil
}
