package engine

// Turn is one completed query/answer exchange.
type Turn struct {
	Query  string
	Answer string
}

// Memory is the sliding conversational window: at most max turns, oldest
// evicted first. One instance belongs to exactly one conversation engine;
// it is not safe for concurrent turns — the engine serializes access.
type Memory struct {
	max   int
	turns []Turn
}

func NewMemory(max int) *Memory {
	if max <= 0 {
		max = 5
	}
	return &Memory{max: max}
}

func (m *Memory) Append(t Turn) {
	m.turns = append(m.turns, t)
	if len(m.turns) > m.max {
		m.turns = m.turns[len(m.turns)-m.max:]
	}
}

// Recent returns the retained turns, oldest first. The slice is a copy.
func (m *Memory) Recent() []Turn {
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Clear drops all turns immediately.
func (m *Memory) Clear() {
	m.turns = nil
}
