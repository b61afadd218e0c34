package models

import (
	"context"
	"testing"
)

func TestFolder_PositionAverage(t *testing.T) {
	root := &Folder{ID: "r", Behavior: PositionAverage}
	a := &File{ID: "a"}
	b := &File{ID: "b"}
	root.Add(a, b)

	a.SetPosition(1)
	b.SetPosition(0.5)

	if got := root.Position(); got != 0.75 {
		t.Errorf("Position() = %v, want 0.75", got)
	}
}

func TestFolder_PositionMax(t *testing.T) {
	root := &Folder{ID: "r", Behavior: PositionMax}
	a := &File{ID: "a"}
	b := &File{ID: "b"}
	root.Add(a, b)

	a.SetPosition(0.2)
	b.SetPosition(0.9)

	if got := root.Position(); got != 0.9 {
		t.Errorf("Position() = %v, want 0.9", got)
	}
}

func TestFolder_NestedRollUp(t *testing.T) {
	root := &Folder{ID: "serial", Behavior: PositionAverage}
	season := &Folder{ID: "s1", Behavior: PositionAverage}
	root.Add(season)

	e1 := &File{ID: "e1"}
	e2 := &File{ID: "e2"}
	season.Add(e1, e2)
	e1.SetPosition(1)

	if got := root.Position(); got != 0.5 {
		t.Errorf("Position() = %v, want 0.5", got)
	}
	if e1.NodeParent() != season || season.NodeParent() != root {
		t.Error("Add must set parent references")
	}
}

func TestFile_SetPositionClamps(t *testing.T) {
	f := &File{ID: "f"}
	f.SetPosition(2)
	if f.Position() != 1 {
		t.Errorf("position above 1 must clamp, got %v", f.Position())
	}
	f.SetPosition(-3)
	if f.Position() != 0 {
		t.Errorf("position below 0 must clamp, got %v", f.Position())
	}
}

func TestFile_VideosLazy(t *testing.T) {
	f := &File{ID: "f"}

	// No factory installed: empty result, no error.
	videos, err := f.Videos(context.Background())
	if err != nil || videos != nil {
		t.Fatalf("want nil, nil without a factory; got %v, %v", videos, err)
	}

	calls := 0
	f.SetVideosFactory(func(ctx context.Context) ([]Video, error) {
		calls++
		return []Video{{URL: "https://cdn.example/1.mp4"}}, nil
	})
	if calls != 0 {
		t.Fatal("installing the factory must not invoke it")
	}

	videos, err = f.Videos(context.Background())
	if err != nil || len(videos) != 1 {
		t.Fatalf("Videos() = %v, %v", videos, err)
	}
}

func TestPoster_BestAndThumb(t *testing.T) {
	var empty Poster
	if empty.Best() != "" || empty.Thumb() != "" {
		t.Error("empty poster must yield empty URLs")
	}

	p := Poster{
		{URL: "https://img.example/thumb.jpg", Width: 190},
		{URL: "https://img.example/full.jpg", Width: 900},
	}
	if p.Thumb() != "https://img.example/thumb.jpg" {
		t.Errorf("Thumb() = %q", p.Thumb())
	}
	if p.Best() != "https://img.example/full.jpg" {
		t.Errorf("Best() = %q", p.Best())
	}
}
