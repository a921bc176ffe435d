package match

import "testing"

func TestNormalizeCompany(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips legal suffix", "Acme Ltd.", "acme"},
		{"strips multiple stop words", "Initech Software Solutions Inc", "initech"},
		{"replaces punctuation", "Wayne-Enterprises (Gotham)", "wayne enterprises gotham"},
		{"collapses whitespace", "  Stark   Industries  ", "stark industries"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeCompany(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCompanyAliases(t *testing.T) {
	t.Parallel()

	aliases := CompanyAliases("AWS")
	found := false
	for _, alias := range aliases {
		if alias == "amazon" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected amazon among aliases of AWS, got %v", aliases)
	}
}

func TestIsCompanyMatchSymmetric(t *testing.T) {
	t.Parallel()

	if !IsCompanyMatch("Amazon Web Services Inc", "AWS") {
		t.Fatalf("expected Amazon Web Services Inc to match AWS")
	}
	if !IsCompanyMatch("AWS", "Amazon Web Services Inc") {
		t.Fatalf("expected AWS to match Amazon Web Services Inc")
	}
}

func TestIsCompanyMatchAliases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"Meta", "Facebook", true},
		{"Google Cloud", "Google", true},
		{"Apple Inc.", "Apple", true},
		{"Initech", "Globex", false},
	}

	for _, tt := range tests {
		if got := IsCompanyMatch(tt.a, tt.b); got != tt.want {
			t.Fatalf("IsCompanyMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsCompanyMatchEmptyInput(t *testing.T) {
	t.Parallel()

	if IsCompanyMatch("", "Acme") {
		t.Fatalf("empty left side must not match")
	}
	if IsCompanyMatch("Acme", "") {
		t.Fatalf("empty right side must not match")
	}
	if IsCompanyMatch("", "") {
		t.Fatalf("two empty sides must not match")
	}
}

func TestNormalizeUniversity(t *testing.T) {
	t.Parallel()

	if got := NormalizeUniversity("Massachusetts Institute of Technology"); got != "massachusetts" {
		t.Fatalf("expected massachusetts, got %q", got)
	}
	if got := NormalizeUniversity("The University of Oxford"); got != "oxford" {
		t.Fatalf("expected oxford, got %q", got)
	}
}

func TestIsUniversityMatch(t *testing.T) {
	t.Parallel()

	if !IsUniversityMatch("Stanford University", "Stanford") {
		t.Fatalf("expected Stanford University to match Stanford")
	}
	if !IsUniversityMatch("Stanford", "Stanford University") {
		t.Fatalf("expected symmetric university match")
	}
	if IsUniversityMatch("", "Stanford") {
		t.Fatalf("empty input must not match")
	}
	if IsUniversityMatch("Harvard", "Stanford") {
		t.Fatalf("different universities must not match")
	}
}
