package crawler

import "testing"

// TestSanitizeEmail tests the cleanup pipeline applied to raw candidates
// lifted from page text.
func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "plain address passes through",
			input: "info@example.com",
			want:  "info@example.com",
			ok:    true,
		},
		{
			name:  "uppercase is lowered",
			input: "Info@Example.COM",
			want:  "info@example.com",
			ok:    true,
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  contact@example.org  ",
			want:  "contact@example.org",
			ok:    true,
		},
		{
			name:  "leading quote is stripped",
			input: `"sales@example.net`,
			want:  "sales@example.net",
			ok:    true,
		},
		{
			name:  "leading bracket and colon are stripped",
			input: "[:mail@example.io",
			want:  "mail@example.io",
			ok:    true,
		},
		{
			name:  "plus tag survives",
			input: "user+tag@example.com",
			want:  "user+tag@example.com",
			ok:    true,
		},
		{
			name:  "subdomain survives",
			input: "dev@mail.example.co.uk",
			want:  "dev@mail.example.co.uk",
			ok:    true,
		},
		{
			name:  "rot13 obfuscated address is decoded",
			input: "vasb@rknzcyr.pbz",
			want:  "info@example.com",
			ok:    true,
		},
		{
			name:  "unknown TLD is rejected",
			input: "user@example.zzz",
			ok:    false,
		},
		{
			name:  "asset filename is rejected",
			input: "logo@2x.png",
			ok:    false,
		},
		{
			name:  "retina stylesheet is rejected",
			input: "theme@2x.min.css",
			ok:    false,
		},
		{
			name:  "missing local part is rejected",
			input: "@example.com",
			ok:    false,
		},
		{
			name:  "missing domain is rejected",
			input: "user@",
			ok:    false,
		},
		{
			name:  "empty input is rejected",
			input: "",
			ok:    false,
		},
		{
			name:  "punctuation only is rejected",
			input: `"[( )]"`,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SanitizeEmail(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got ok=%v (result %q)", tt.ok, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestRot13 tests the substitution itself.
func TestRot13(t *testing.T) {
	t.Parallel()

	t.Run("round trip is identity", func(t *testing.T) {
		t.Parallel()

		input := "info@example.com"
		if got := rot13(rot13(input)); got != input {
			t.Errorf("expected round trip to return %q, got %q", input, got)
		}
	})

	t.Run("non-letters are untouched", func(t *testing.T) {
		t.Parallel()

		if got := rot13("a.b@c-1"); got != "n.o@p-1" {
			t.Errorf("unexpected rot13 result %q", got)
		}
	})
}

// TestLooksROT13Encoded verifies the detection heuristic: only
// candidates whose decoded TLD is common are treated as obfuscated.
func TestLooksROT13Encoded(t *testing.T) {
	t.Parallel()

	t.Run("rot13 of .com is detected", func(t *testing.T) {
		t.Parallel()
		if !looksROT13Encoded("vasb@rknzcyr.pbz") {
			t.Error("expected rot13-encoded address to be detected")
		}
	})

	t.Run("plain .de address is not misdetected", func(t *testing.T) {
		t.Parallel()
		// "de" decodes to "qr", which is not a common TLD
		if looksROT13Encoded("kontakt@example.de") {
			t.Error("expected plain address to pass undetected")
		}
	})
}

// TestIsAssetFilename tests the false-positive filter for srcset-style
// filenames.
func TestIsAssetFilename(t *testing.T) {
	t.Parallel()

	if !isAssetFilename("hero@2x.jpg") {
		t.Error("expected retina image name to be flagged")
	}
	if isAssetFilename("info@example.com") {
		t.Error("expected plain address not to be flagged")
	}
}
