package scramble

// Action identifies the transformation a server applies to a message.
type Action string

// The closed set of actions a transform server understands.
const (
	ActionUppercase Action = "uppercase"
	ActionLowercase Action = "lowercase"
	ActionReverse   Action = "reverse"
	ActionShuffle   Action = "shuffle"
	ActionRandom    Action = "random"
)

var actions = [...]Action{
	ActionUppercase,
	ActionLowercase,
	ActionReverse,
	ActionShuffle,
	ActionRandom,
}

// Actions returns every known action.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions[:])
	return out
}

// Valid reports whether a names a known action.
// Matching is exact and case-sensitive.
func (a Action) Valid() bool {
	for _, known := range actions {
		if a == known {
			return true
		}
	}
	return false
}
