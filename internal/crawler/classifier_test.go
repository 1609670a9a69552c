package crawler

import "testing"

// TestNewClassifier tests registered-domain derivation from seed URLs.
func TestNewClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seedURL string
		want    string
	}{
		{
			name:    "plain host",
			seedURL: "https://example.com",
			want:    "example.com",
		},
		{
			name:    "www prefix is stripped",
			seedURL: "https://www.example.com/contact",
			want:    "example.com",
		},
		{
			name:    "subdomain reduces to registrable domain",
			seedURL: "https://mail.example.com",
			want:    "example.com",
		},
		{
			name:    "multi-label public suffix",
			seedURL: "https://www.example.co.uk",
			want:    "example.co.uk",
		},
		{
			name:    "uppercase host is lowered",
			seedURL: "https://WWW.EXAMPLE.COM",
			want:    "example.com",
		},
		{
			name:    "port does not leak into the domain",
			seedURL: "https://example.com:8443/path",
			want:    "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewClassifier(tt.seedURL)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.Domain() != tt.want {
				t.Errorf("expected domain %q, got %q", tt.want, c.Domain())
			}
		})
	}

	t.Run("missing host returns an error", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClassifier("https://"); err == nil {
			t.Error("expected an error for a seed without a host")
		}
	})
}

// TestClassifierIsMatch tests the address-to-seed-domain matching rules.
func TestClassifierIsMatch(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("https://www.example.com")
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "exact domain matches", address: "info@example.com", want: true},
		{name: "subdomain matches", address: "dev@mail.example.com", want: true},
		{name: "case-insensitive match", address: "Info@EXAMPLE.COM", want: true},
		{name: "other domain does not match", address: "info@example.org", want: false},
		{name: "suffix without dot does not match", address: "info@notexample.com", want: false},
		{name: "no at sign does not match", address: "example.com", want: false},
		{name: "trailing at sign does not match", address: "info@", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.IsMatch(tt.address); got != tt.want {
				t.Errorf("IsMatch(%q) = %v, expected %v", tt.address, got, tt.want)
			}
		})
	}
}
