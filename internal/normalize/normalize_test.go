package normalize

import "testing"

func TestNormalizeFoldsPunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  We Could Just Share…  ", "we could just share..."},
		{"“Quoted” — Title", `"quoted" - title`},
		{"It’s   spaced out", "it's spaced out"},
		{"Dots.....", "dots..."},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"We Could Just Share…",
		"“Smart” ‘quotes’ — and – dashes",
		"plain title",
		"Dots....... and space",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestTitleVariants(t *testing.T) {
	variants := TitleVariants("We Could Just Share…")
	if len(variants) == 0 {
		t.Fatal("expected variants for non-empty input")
	}
	if variants[0] != "We Could Just Share…" {
		t.Errorf("first variant should be the raw input, got %q", variants[0])
	}
	var sawASCII, sawEllipsis bool
	for _, v := range variants {
		switch v {
		case "We Could Just Share...":
			sawASCII = true
		case "We Could Just Share…":
			sawEllipsis = true
		}
	}
	if !sawASCII || !sawEllipsis {
		t.Errorf("expected both ellipsis forms, got %v", variants)
	}

	// Every variant must normalize to the same value as the input.
	want := Normalize("We Could Just Share…")
	for _, v := range variants {
		if Normalize(v) != want {
			t.Errorf("variant %q normalizes to %q, want %q", v, Normalize(v), want)
		}
	}
}

func TestTitleVariantsEmpty(t *testing.T) {
	if got := TitleVariants("   "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}

func TestTitleVariantsPlainTitleSingleEntry(t *testing.T) {
	variants := TitleVariants("Plain Title")
	if len(variants) != 1 || variants[0] != "Plain Title" {
		t.Errorf("expected single raw variant, got %v", variants)
	}
}

func TestBasenameWithoutExt(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/media/shows/Title A.mp4", "Title A"},
		{"Title A.mkv", "Title A"},
		{"/media/noext", "noext"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := BasenameWithoutExt(tc.input); got != tc.want {
			t.Errorf("BasenameWithoutExt(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripQualitySuffix(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"My Show - [WEBDL-1080p].mkv", "My Show"},
		{"My Show [WEBDL-1080p]", "My Show"},
		{"My Show -", "My Show"},
		{"My Show", "My Show"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripQualitySuffix(tc.input); got != tc.want {
			t.Errorf("StripQualitySuffix(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripQualitySuffixRemovesAtMostOneBlock(t *testing.T) {
	if got := StripQualitySuffix("Show [Proper] - [WEBDL-1080p]"); got != "Show [Proper]" {
		t.Errorf("expected only the trailing block removed, got %q", got)
	}
}

func TestStripTrailingPunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"She Sounds Just Like You…", "She Sounds Just Like You"},
		{"Really?!", "Really"},
		{"Title (extended) ", "Title (extended"},
		{"No punctuation", "No punctuation"},
		{"...", ""},
	}
	for _, tc := range cases {
		if got := StripTrailingPunctuation(tc.input); got != tc.want {
			t.Errorf("StripTrailingPunctuation(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
