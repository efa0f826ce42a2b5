package names

import (
	"strings"
	"testing"
)

func TestMatchExact(t *testing.T) {
	decision := Match("José", "García", Record{FirstName: "Jose", LastName: "Garcia"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "exact match:") {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestMatchNicknamePath(t *testing.T) {
	decision := Match("Robert", "Smith", Record{FirstName: "Bob", LastName: "Smith", NickName: "Robert"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "nickname match:") {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestMatchMaidenNamePath(t *testing.T) {
	decision := Match("Mary", "Jones", Record{FirstName: "Mary", LastName: "Doe", MaidenName: "Jones"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "maiden name match:") {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestMatchMiddleNamePath(t *testing.T) {
	decision := Match("James", "Brown", Record{FirstName: "Edward", MiddleName: "James", LastName: "Brown"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "middle name match:") {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestMatchHyphenSegmentVariation(t *testing.T) {
	decision := Match("Anne-Marie", "Lee", Record{FirstName: "Marie", LastName: "Lee"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "exact match:") {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestMatchPriorityOrderPrefersExact(t *testing.T) {
	// The record matches both exactly and via nickname; exact wins.
	decision := Match("Robert", "Smith", Record{FirstName: "Robert", LastName: "Smith", NickName: "Robert"})
	if !decision.Match {
		t.Fatalf("expected match, got %+v", decision)
	}
	if !strings.HasPrefix(decision.Reason, "exact match:") {
		t.Fatalf("expected exact reason to win, got %q", decision.Reason)
	}
}

func TestMatchNoMatch(t *testing.T) {
	decision := Match("Alice", "Walker", Record{FirstName: "Beatriz", LastName: "Nunes"})
	if decision.Match {
		t.Fatalf("expected no match, got %+v", decision)
	}
	if !strings.Contains(decision.Reason, "Alice Walker") || !strings.Contains(decision.Reason, "Beatriz Nunes") {
		t.Fatalf("no-match reason must carry both names for audit, got %q", decision.Reason)
	}
}

func TestMatchEmptyOptionalFieldsSkipped(t *testing.T) {
	// A blank maiden name must not turn (first, "") into a comparable pair.
	decision := Match("Mary", "Jones", Record{FirstName: "Mary", LastName: "Doe"})
	if decision.Match {
		t.Fatalf("expected no match, got %+v", decision)
	}
}

func TestMatchEmptyCandidate(t *testing.T) {
	decision := Match("", "", Record{FirstName: "", LastName: ""})
	if decision.Match {
		t.Fatalf("empty candidate must never match, got %+v", decision)
	}
}

func TestMatchCaseAndAccentInsensitive(t *testing.T) {
	decision := Match("MARÍA", "LÓPEZ", Record{FirstName: "maria", LastName: "lopez"})
	if !decision.Match {
		t.Fatalf("expected accent/case-insensitive match, got %+v", decision)
	}
}
