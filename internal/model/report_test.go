package model

import (
	"testing"
)

// testEmails returns an unsorted mixed record set.
func testEmails() []EmailRecord {
	return []EmailRecord{
		{Address: "zoe@example.com", SourceURL: "https://example.com", DomainMatch: true},
		{Address: "partner@other.org", SourceURL: "https://example.com/a", DomainMatch: false},
		{Address: "amy@example.com", SourceURL: "https://example.com/b", DomainMatch: true},
	}
}

// TestNewRunReport tests the initial report state.
func TestNewRunReport(t *testing.T) {
	t.Parallel()

	r := NewRunReport("example.com")
	if r.Seed != "example.com" {
		t.Errorf("expected seed example.com, got %q", r.Seed)
	}
	if r.Emails == nil {
		t.Error("expected non-nil email slice")
	}
	if r.StartedAt.IsZero() {
		t.Error("expected start timestamp to be set")
	}
}

// TestSortEmails tests deterministic ordering by address.
func TestSortEmails(t *testing.T) {
	t.Parallel()

	r := NewRunReport("example.com")
	r.Emails = testEmails()
	r.SortEmails()

	want := []string{"amy@example.com", "partner@other.org", "zoe@example.com"}
	for i, w := range want {
		if r.Emails[i].Address != w {
			t.Errorf("position %d: expected %q, got %q", i, w, r.Emails[i].Address)
		}
	}
}

// TestEmailPartitions tests the matched/external accessors.
func TestEmailPartitions(t *testing.T) {
	t.Parallel()

	r := NewRunReport("example.com")
	r.Emails = testEmails()

	matching := r.MatchingEmails()
	if len(matching) != 2 {
		t.Errorf("expected 2 matching records, got %d", len(matching))
	}
	for _, rec := range matching {
		if !rec.DomainMatch {
			t.Errorf("unexpected external record %q in matching set", rec.Address)
		}
	}

	external := r.ExternalEmails()
	if len(external) != 1 || external[0].Address != "partner@other.org" {
		t.Errorf("unexpected external set %v", external)
	}
}

// TestFilteredEmails verifies that strict mode filters presentation
// without touching the stored set.
func TestFilteredEmails(t *testing.T) {
	t.Parallel()

	t.Run("non-strict returns everything", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("example.com")
		r.Emails = testEmails()

		if got := r.FilteredEmails(); len(got) != 3 {
			t.Errorf("expected 3 records, got %d", len(got))
		}
	})

	t.Run("strict returns only matches", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("example.com")
		r.Emails = testEmails()
		r.Strict = true

		got := r.FilteredEmails()
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		for _, rec := range got {
			if !rec.DomainMatch {
				t.Errorf("unexpected external record %q", rec.Address)
			}
		}
		if len(r.Emails) != 3 {
			t.Error("expected the underlying set to be unmodified")
		}
	})
}
