package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Cozy Beachfront Cottage  ",
			want:  "Cozy Beachfront Cottage",
		},
		{
			name:  "collapse internal runs",
			input: "Cozy   Beachfront\tCottage",
			want:  "Cozy Beachfront Cottage",
		},
		{
			name:  "only whitespace",
			input: " \t\n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and trim",
			input: "  Gary@Example.COM ",
			want:  "gary@example.com",
		},
		{
			name:  "already clean",
			input: "gary@example.com",
			want:  "gary@example.com",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeEmail(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
