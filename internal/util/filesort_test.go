package util

import (
	"testing"

	"github.com/fsclient/fsclient-go/internal/models"
)

func TestNaturalSortLess(t *testing.T) {
	testCases := []struct {
		s1, s2   string
		expected bool
	}{
		{"Episode 2", "Episode 10", true},
		{"Episode 10", "Episode 2", false},
		{"s1e2", "s1e10", true},
		{"v1.2", "v1.10", true},
		{"a", "b", true},
		{"b", "a", false},
		{"file", "file1", true},
		{"file1", "file", false},
	}
	for _, tc := range testCases {
		if result := NaturalSortLess(tc.s1, tc.s2); result != tc.expected {
			t.Errorf("NaturalSortLess(%q, %q) = %v; want %v", tc.s1, tc.s2, result, tc.expected)
		}
	}
}

func TestNaturalSortLess_Equal(t *testing.T) {
	for _, s := range []string{"Episode 1", "s2e10", "v1.0"} {
		if NaturalSortLess(s, s) {
			t.Errorf("NaturalSortLess(%q, %q) = true; want false (equal case)", s, s)
		}
	}
}

func TestSortFiles(t *testing.T) {
	files := []*models.File{
		{Title: "Episode 10", Season: 2, Episode: 10},
		{Title: "Episode 1", Season: 1, Episode: 1},
		{Title: "Special B", Season: 1},
		{Title: "Special A", Season: 1},
		{Title: "Episode 2", Season: 1, Episode: 2},
	}
	SortFiles(files)

	want := []string{"Special A", "Special B", "Episode 1", "Episode 2", "Episode 10"}
	for i, title := range want {
		if files[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, files[i].Title, title)
		}
	}
}
