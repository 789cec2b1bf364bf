// Package testutil provides shared test fixtures, most importantly an
// in-memory stand-in for the remote object store.
package testutil

import (
	"context"
	"fmt"
	"slices"

	"github.com/tlesnik44-code/origocode/internal/domain"
	"github.com/tlesnik44-code/origocode/internal/store"
)

// FakeNode is a single object in the fake remote store.
type FakeNode struct {
	ID       string
	Name     string
	MimeType string
	Parents  []string
	Content  []byte
	Trashed  bool
}

// FakeRemote is an in-memory store.RemoteStore with explicit
// parent-link sets, mimicking a flat parent-linked object store. Nodes
// are kept in insertion order so "first match" is deterministic, and
// duplicate names under one parent are permitted, like the real store.
type FakeRemote struct {
	Nodes []*FakeNode

	// Calls counts every primitive invocation, letting tests assert
	// that validation failures never reach the store.
	Calls int

	nextID int
}

// NewFakeRemote creates an empty fake store.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{}
}

func (f *FakeRemote) newID() string {
	f.nextID++
	return fmt.Sprintf("node-%d", f.nextID)
}

// ByID returns the stored node with the given id.
func (f *FakeRemote) ByID(id string) *FakeNode {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeCount reports how many nodes exist, trashed included.
func (f *FakeRemote) NodeCount() int { return len(f.Nodes) }

func (f *FakeRemote) RootID() string { return "root" }

func (f *FakeRemote) FindChild(_ context.Context, parentID, name string, kind store.Kind) (domain.Node, error) {
	f.Calls++
	for _, n := range f.Nodes {
		if n.Trashed || n.Name != name || !slices.Contains(n.Parents, parentID) {
			continue
		}
		isFolder := n.MimeType == domain.MimeTypeFolder
		if kind == store.KindFolder && !isFolder {
			continue
		}
		if kind == store.KindFile && isFolder {
			continue
		}
		return f.toNode(n), nil
	}
	return domain.Node{}, domain.ErrNotFound
}

func (f *FakeRemote) ListChildren(_ context.Context, parentID string) ([]domain.Node, error) {
	f.Calls++
	var out []domain.Node
	for _, n := range f.Nodes {
		if !n.Trashed && slices.Contains(n.Parents, parentID) {
			out = append(out, f.toNode(n))
		}
	}
	return out, nil
}

func (f *FakeRemote) CreateFolder(_ context.Context, parentID, name string) (domain.Node, error) {
	f.Calls++
	n := &FakeNode{ID: f.newID(), Name: name, MimeType: domain.MimeTypeFolder, Parents: []string{parentID}}
	f.Nodes = append(f.Nodes, n)
	return f.toNode(n), nil
}

func (f *FakeRemote) CreateFile(_ context.Context, parentID, name, mimeType string, content []byte) (domain.Node, error) {
	f.Calls++
	n := &FakeNode{ID: f.newID(), Name: name, MimeType: mimeType, Parents: []string{parentID}, Content: slices.Clone(content)}
	f.Nodes = append(f.Nodes, n)
	return f.toNode(n), nil
}

func (f *FakeRemote) UpdateContent(_ context.Context, id string, content []byte) (domain.Node, error) {
	f.Calls++
	n := f.ByID(id)
	if n == nil {
		return domain.Node{}, domain.ErrNotFound
	}
	n.Content = slices.Clone(content)
	return f.toNode(n), nil
}

func (f *FakeRemote) Download(_ context.Context, id string) ([]byte, error) {
	f.Calls++
	n := f.ByID(id)
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(n.Content), nil
}

func (f *FakeRemote) Trash(_ context.Context, id string) error {
	f.Calls++
	n := f.ByID(id)
	if n == nil {
		return domain.ErrNotFound
	}
	n.Trashed = true
	return nil
}

func (f *FakeRemote) Rename(_ context.Context, id, newName string) (domain.Node, error) {
	f.Calls++
	n := f.ByID(id)
	if n == nil {
		return domain.Node{}, domain.ErrNotFound
	}
	n.Name = newName
	return f.toNode(n), nil
}

func (f *FakeRemote) Reparent(_ context.Context, id, newParentID string, oldParentIDs []string) error {
	f.Calls++
	n := f.ByID(id)
	if n == nil {
		return domain.ErrNotFound
	}
	var remaining []string
	for _, p := range n.Parents {
		if !slices.Contains(oldParentIDs, p) {
			remaining = append(remaining, p)
		}
	}
	n.Parents = append(remaining, newParentID)
	return nil
}

func (f *FakeRemote) toNode(n *FakeNode) domain.Node {
	return domain.Node{
		ID:          n.ID,
		Name:        n.Name,
		MimeType:    n.MimeType,
		WebViewLink: "https://drive.example/" + n.ID,
		Parents:     slices.Clone(n.Parents),
	}
}

// FakeSource hands out the same fake remote on every session.
type FakeSource struct {
	Remote *FakeRemote
}

func (s *FakeSource) Session(context.Context) (store.RemoteStore, error) {
	return s.Remote, nil
}

// Compile-time interface checks
var (
	_ store.RemoteStore   = (*FakeRemote)(nil)
	_ store.SessionSource = (*FakeSource)(nil)
)
