// This file defines the playable-content tree: folders, files and the
// lazy video factory that defers stream resolution until playback.

package models

import "context"

// PositionBehavior governs how playback position aggregates from a
// folder's children.
type PositionBehavior int

const (
	PositionAverage PositionBehavior = iota
	PositionMax
)

// TreeNode is a node of the playable-content tree.
type TreeNode interface {
	// NodeID identifies the node within its site.
	NodeID() string
	// NodeTitle is the display title.
	NodeTitle() string
	// NodeParent is the owning folder, nil for roots. The reference
	// is non-owning; folders own their children.
	NodeParent() *Folder
	// Position is the playback position in [0, 1].
	Position() float64

	setParent(*Folder)
}

// Folder is an internal node owning an ordered list of children.
type Folder struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Season   int              `json:"season,omitempty"`
	Behavior PositionBehavior `json:"-"`

	parent   *Folder
	children []TreeNode
}

func (f *Folder) NodeID() string      { return f.ID }
func (f *Folder) NodeTitle() string   { return f.Title }
func (f *Folder) NodeParent() *Folder { return f.parent }

func (f *Folder) setParent(p *Folder) { f.parent = p }

// Children returns the ordered child list. The returned slice is owned
// by the folder and must not be mutated by callers.
func (f *Folder) Children() []TreeNode {
	return f.children
}

// Add appends children and takes ownership of them.
func (f *Folder) Add(nodes ...TreeNode) {
	for _, n := range nodes {
		n.setParent(f)
		f.children = append(f.children, n)
	}
}

// Position rolls up children positions according to the folder's
// behavior: the mean for PositionAverage, the max for PositionMax.
func (f *Folder) Position() float64 {
	if len(f.children) == 0 {
		return 0
	}
	var acc float64
	for _, c := range f.children {
		p := c.Position()
		switch f.Behavior {
		case PositionMax:
			if p > acc {
				acc = p
			}
		default:
			acc += p
		}
	}
	if f.Behavior == PositionMax {
		return acc
	}
	return acc / float64(len(f.children))
}

// Video is a single playable stream variant.
type Video struct {
	URL     string            `json:"url"`
	Quality string            `json:"quality,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// VideosFactory resolves the playable streams of a file on demand.
type VideosFactory func(ctx context.Context) ([]Video, error)

// File is a leaf holding one episode (or film). Its videos are not
// resolved eagerly: the factory runs only when playback is requested.
type File struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`

	// Playlist is the ordered list of sibling files for episode
	// navigation. All files of one serial share the same slice.
	Playlist []*File `json:"-"`

	parent  *Folder
	played  float64
	factory VideosFactory
}

func (f *File) NodeID() string      { return f.ID }
func (f *File) NodeTitle() string   { return f.Title }
func (f *File) NodeParent() *Folder { return f.parent }

func (f *File) setParent(p *Folder) { f.parent = p }

// Position returns the playback position in [0, 1].
func (f *File) Position() float64 { return f.played }

// SetPosition records the playback position, clamped to [0, 1].
func (f *File) SetPosition(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	f.played = p
}

// SetVideosFactory installs the deferred stream resolver.
func (f *File) SetVideosFactory(factory VideosFactory) {
	f.factory = factory
}

// Videos resolves the playable streams. An empty result is a normal
// state ("no sources"), not an error; an error is returned only when no
// factory was installed or the context was canceled.
func (f *File) Videos(ctx context.Context) ([]Video, error) {
	if f.factory == nil {
		return nil, nil
	}
	return f.factory(ctx)
}
