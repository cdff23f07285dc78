package scramble

import "testing"

func TestAction_Valid(t *testing.T) {
	tests := []struct {
		action Action
		want   bool
	}{
		{ActionUppercase, true},
		{ActionLowercase, true},
		{ActionReverse, true},
		{ActionShuffle, true},
		{ActionRandom, true},
		{"", false},
		{"Uppercase", false},
		{"REVERSE", false},
		{"upper", false},
		{"reverse ", false},
		{"rot13", false},
	}

	for _, tt := range tests {
		if got := tt.action.Valid(); got != tt.want {
			t.Errorf("Action(%q).Valid() = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestActions(t *testing.T) {
	all := Actions()
	if len(all) != 5 {
		t.Fatalf("Actions() returned %d actions, want 5", len(all))
	}
	for _, a := range all {
		if !a.Valid() {
			t.Errorf("Actions() contains invalid action %q", a)
		}
	}

	// The returned slice is a copy; mutating it must not poison the set.
	all[0] = "mutated"
	if !ActionUppercase.Valid() {
		t.Error("mutating Actions() result affected validation")
	}
}
