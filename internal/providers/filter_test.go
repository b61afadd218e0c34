package providers

import (
	"testing"

	"github.com/fsclient/fsclient-go/internal/models"
)

var testSite = models.NewSite("test")

func tag(tagType, value string) models.TitledTag {
	return models.NewTitledTag(testSite, tagType, value)
}

func TestFilterSession_FirstDiffAppliesEverything(t *testing.T) {
	s := NewFilterSession()
	diff := s.Diff([]models.TitledTag{tag("genre", "drama"), tag("year", "2020")})
	if len(diff) != 2 {
		t.Fatalf("expected 2 changed tags, got %v", diff)
	}
}

func TestFilterSession_UnchangedTagsSkipped(t *testing.T) {
	s := NewFilterSession()
	s.Diff([]models.TitledTag{tag("genre", "drama")})

	diff := s.Diff([]models.TitledTag{tag("genre", "drama")})
	if len(diff) != 0 {
		t.Fatalf("an unchanged tag set must produce an empty diff, got %v", diff)
	}
}

func TestFilterSession_ChangedValueReapplied(t *testing.T) {
	s := NewFilterSession()
	s.Diff([]models.TitledTag{tag("genre", "drama")})

	diff := s.Diff([]models.TitledTag{tag("genre", "comedy")})
	if len(diff) != 1 || diff[0].Value != "comedy" {
		t.Fatalf("expected only the changed genre, got %v", diff)
	}
}

func TestFilterSession_RemovedTypeGetsAnyReset(t *testing.T) {
	s := NewFilterSession()
	s.Diff([]models.TitledTag{tag("genre", "drama"), tag("year", "2020")})

	diff := s.Diff([]models.TitledTag{tag("year", "2020")})
	if len(diff) != 1 {
		t.Fatalf("expected a single reset tag, got %v", diff)
	}
	reset := diff[0]
	if reset.Type != "genre" || reset.Value != "" {
		t.Fatalf("expected a type-scoped any reset for genre, got %+v", reset)
	}
}

func TestFilterSession_AnyTagsIgnored(t *testing.T) {
	s := NewFilterSession()
	diff := s.Diff([]models.TitledTag{models.TagAny})
	if len(diff) != 0 {
		t.Fatalf("the any sentinel must not be applied, got %v", diff)
	}
}
