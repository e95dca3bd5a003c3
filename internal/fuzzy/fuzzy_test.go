package fuzzy

import "testing"

var clangSpellings = []string{
	"-verbose", "-version", "-Wall", "-Werror", "-fvisibility=",
	"--target=", "-nostdlib", "-pthread",
}

func TestFindBestCatchesTypo(t *testing.T) {
	m := NewMatcher(2)

	tests := []struct {
		input string
		want  string
	}{
		{"-verbsoe", "-verbose"},
		{"-Wal", "-Wall"},
		{"-nostdlbi", "-nostdlib"},
		{"-phtread", "-pthread"},
	}
	for _, tt := range tests {
		if got := m.FindBest(tt.input, clangSpellings); got != tt.want {
			t.Errorf("FindBest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindBestRejectsDistantInput(t *testing.T) {
	m := NewMatcher(2)
	if got := m.FindBest("-qqqqqqqq", clangSpellings); got != "" {
		t.Errorf("expected no suggestion, got %q", got)
	}
}

func TestFindBestIgnoresTinyInput(t *testing.T) {
	m := NewMatcher(2)
	if got := m.FindBest("x", clangSpellings); got != "" {
		t.Errorf("expected no suggestion for single character, got %q", got)
	}
}

func TestFindMatchesSkipsExact(t *testing.T) {
	m := NewMatcher(2)
	for _, match := range m.FindMatches("-wall", clangSpellings) {
		// Case-folded exact hits are not suggestions.
		if match.Value == "-Wall" && match.Distance == 0 {
			t.Error("exact match should be skipped")
		}
	}
}

func TestMatchesSortedBestFirst(t *testing.T) {
	m := NewMatcher(3)
	matches := m.FindMatches("-versio", clangSpellings)
	if len(matches) < 2 {
		t.Fatalf("expected both -version and -verbose, got %v", matches)
	}
	if matches[0].Value != "-version" {
		t.Errorf("expected -version ranked first, got %q", matches[0].Value)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Error("matches not sorted by score")
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	m := NewMatcher(10)

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"flag", "flag", 0},
		{"flag", "flga", 2},
		{"-Wall", "-Wal", 1},
	}
	for _, tt := range tests {
		if got := m.levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLevenshteinEarlyTermination(t *testing.T) {
	m := NewMatcher(1)
	// Distance is far above the budget: any value > maxDistance is fine.
	if got := m.levenshteinDistance("-Wall", "-fvisibility="); got <= m.maxDistance {
		t.Errorf("expected early termination above budget, got %d", got)
	}
}

func TestFindSuggestionsLimit(t *testing.T) {
	got := FindSuggestions("-versio", clangSpellings, 3, 1)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %v", got)
	}
	if got[0] != "-version" {
		t.Errorf("expected -version, got %q", got[0])
	}
}

func TestFindBestSpelling(t *testing.T) {
	if got := FindBestSpelling("-Werorr", clangSpellings, 2); got != "-Werror" {
		t.Errorf("expected -Werror, got %q", got)
	}
}
