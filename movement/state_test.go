package movement

import "testing"

func TestStateTagsAreAtomic(t *testing.T) {
	all := []State{Idle, Move, Brake, Land, Jump, Fall, Grapple, Destroyed}
	seen := map[State]bool{}
	for _, s := range all {
		if !s.Atomic() {
			t.Fatalf("%v should be atomic", s)
		}
		if seen[s] {
			t.Fatalf("%v reuses a bit", s)
		}
		seen[s] = true
	}
	for _, composite := range []State{0, Idle | Land, Jump | Fall, Idle | Move | Brake | Land} {
		if composite.Atomic() {
			t.Fatalf("%v should not be atomic", composite)
		}
	}
}

func TestGroupMembership(t *testing.T) {
	cases := []struct {
		group Group
		want  []State
	}{
		{Static, []State{Idle, Land}},
		{Grounded, []State{Idle, Move, Brake, Land}},
		{Airborne, []State{Jump, Fall}},
	}
	for _, c := range cases {
		t.Run(c.group.Name(), func(t *testing.T) {
			got := c.group.Members()
			if len(got) != len(c.want) {
				t.Fatalf("members = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("members = %v, want %v", got, c.want)
				}
			}
			for _, s := range []State{Grapple, Destroyed} {
				if s.In(c.group) {
					t.Fatalf("%v must not be in %s", s, c.group.Name())
				}
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if Grapple.String() != "grapple" {
		t.Fatalf("Grapple.String() = %q", Grapple.String())
	}
	if got := (Idle | Land).String(); got != "state(9)" {
		t.Fatalf("composite String() = %q", got)
	}
}
