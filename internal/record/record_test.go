// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/litscout/pkg/types"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already clean", "Attention Is All You Need", "Attention Is All You Need"},
		{"inner runs", "Deep  \t Learning\n\nSurvey", "Deep Learning Survey"},
		{"leading and trailing", "  padded  ", "padded"},
		{"whitespace only", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare doi", "10.1234/ABC.5", "10.1234/abc.5"},
		{"https resolver", "https://doi.org/10.1234/abc", "10.1234/abc"},
		{"http resolver", "http://doi.org/10.1234/abc", "10.1234/abc"},
		{"dx resolver", "https://dx.doi.org/10.1234/abc", "10.1234/abc"},
		{"doi scheme", "doi:10.1234/abc", "10.1234/abc"},
		{"surrounding whitespace", "  10.1234/abc  ", "10.1234/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDOI(tt.in); got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampYear(t *testing.T) {
	current := time.Now().Year()
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"too old", 1899, 0},
		{"lower bound", 1900, 1900},
		{"current year", current, current},
		{"future", current + 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampYear(tt.in); got != tt.want {
				t.Errorf("ClampYear(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleFingerprint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"drops short tokens", "A Study of ML", "study"},
		{"punctuation to spaces", "Attention: Is, All-You Need!", "attention all you need"},
		{"case folded", "DEEP Learning", "deep learning"},
		{"digits kept", "GPT 175B models", "gpt 175b models"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFingerprint(tt.in); got != tt.want {
				t.Errorf("TitleFingerprint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 0},
		{"identical", "neural machine translation", "neural machine translation", 1},
		{"disjoint", "graph networks", "protein folding", 0},
		{"partial overlap", "deep learning survey", "deep learning review", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(TokenSet(tt.a), TokenSet(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		name       string
		record     types.Record
		wantPrefix string
	}{
		{"doi wins", types.Record{DOI: "10.1/x", Title: "Some Title", URL: "https://a"}, "doi:10.1/x"},
		{"title fallback", types.Record{Title: "Attention Is All You Need"}, "title:"},
		{"url fallback", types.Record{Title: "a b", URL: "https://example.com/p"}, "url:"},
		{"row fallback", types.Record{Title: "", Authors: "X Y"}, "row:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ID(tt.record)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("ID() = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestIDStableAcrossDOIVariants(t *testing.T) {
	a := ID(types.Record{DOI: "https://doi.org/10.1234/ABC"})
	b := ID(types.Record{DOI: "doi:10.1234/abc"})
	if a != b {
		t.Errorf("DOI variants produced different IDs: %q vs %q", a, b)
	}
}

func TestIDTitleHashLength(t *testing.T) {
	got := ID(types.Record{Title: "Attention Is All You Need"})
	if len(got) != len("title:")+16 {
		t.Errorf("ID() = %q, want 16-char hash after prefix", got)
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"Ashish Vaswani"}, "Ashish Vaswani"},
		{"keeps first three", []string{"A One", "B Two", "C Three", "D Four"}, "A One, B Two, C Three"},
		{"skips empties", []string{"", "  ", "A One", "B Two"}, "A One, B Two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAuthors(tt.names); got != tt.want {
				t.Errorf("FormatAuthors(%v) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(types.Record{
		Title:     "  Deep   Learning ",
		Authors:   " A  One ",
		DOI:       "https://doi.org/10.1/X",
		Year:      1850,
		Citations: -3,
	})
	if got.Title != "Deep Learning" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Authors != "A One" {
		t.Errorf("Authors = %q", got.Authors)
	}
	if got.DOI != "10.1/x" {
		t.Errorf("DOI = %q", got.DOI)
	}
	if got.Year != 0 {
		t.Errorf("Year = %d, want 0", got.Year)
	}
	if got.Citations != 0 {
		t.Errorf("Citations = %d, want 0", got.Citations)
	}
}
