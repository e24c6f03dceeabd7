// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestOrder_EmptyGraph(t *testing.T) {
	t.Parallel()
	order, err := New().Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestOrder_PreBeforeTask(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddTask("bar")
	g.AddPre("bar", "foo")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"foo", "bar"}) {
		t.Errorf("expected [foo bar], got %v", order)
	}
}

func TestOrder_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddPre("deploy", "build")
	g.AddPre("deploy", "test")
	g.AddPre("build", "clean")
	g.AddPre("test", "clean")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "clean" {
		t.Errorf("expected clean first, got %v", order)
	}
	if order[len(order)-1] != "deploy" {
		t.Errorf("expected deploy last, got %v", order)
	}
}

func TestOrder_DuplicatePreIgnored(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddPre("b", "a")
	g.AddPre("b", "a")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", order)
	}
}

func TestOrder_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{"self loop", [][2]string{{"a", "a"}}, []string{"a", "a"}},
		{"two nodes", [][2]string{{"a", "b"}, {"b", "a"}}, []string{"a", "b", "a"}},
		{"three nodes", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, []string{"a", "b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddPre(e[0], e[1])
			}
			_, err := g.Order()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("cycle = %v, want %v", cycleErr.Cycle, tt.want)
			}
		})
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"a", "b", "a"}}
	want := "pre-requisite cycle detected: a -> b -> a"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
