package task

import (
	"testing"
	"time"
)

func TestKey_PadsComponents(t *testing.T) {
	d := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.Local)
	if got := Key(d); got != "2025-03-07" {
		t.Fatalf("Key = %q, want 2025-03-07", got)
	}
}

func TestValidKey(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2025-03-07", true},
		{"2025-3-7", false},
		{"20250307", false},
		{"", false},
		{"2025-13-01", false},
	}
	for _, tc := range cases {
		if got := ValidKey(tc.in); got != tc.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCollection_CloneIsIndependent(t *testing.T) {
	c := Collection{"2025-01-01": {{ID: "a", Text: "one"}}}
	dup := c.Clone()
	dup["2025-01-01"][0].Text = "changed"
	if c["2025-01-01"][0].Text != "one" {
		t.Fatalf("Clone shares backing array with original")
	}
}

func TestCollection_Stats(t *testing.T) {
	c := Collection{
		"2025-01-01": {{ID: "a", Completed: true}, {ID: "b"}},
		"2025-01-02": {{ID: "c"}},
	}
	s := c.Stats()
	if s.Total != 3 || s.Completed != 1 || s.Pending != 2 {
		t.Fatalf("Stats = %+v, want total=3 completed=1 pending=2", s)
	}
	if s.Total != s.Completed+s.Pending {
		t.Fatalf("stats invariant violated: %+v", s)
	}
}
