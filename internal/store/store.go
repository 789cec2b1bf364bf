package store

import (
	"context"

	"github.com/tlesnik44-code/origocode/internal/domain"
)

// Kind filters name-scoped child lookups.
type Kind int

const (
	KindAny Kind = iota
	KindFolder
	KindFile
)

// RemoteStore is the capability set the proxy composes against the flat
// remote object store. Implementations translate to the store's native
// addressing (opaque node ids, parent-link sets, query-by-metadata) and
// return domain-level errors: domain.ErrNotFound when a lookup matches
// nothing, domain.ErrRemote (wrapped) for store faults.
type RemoteStore interface {
	// RootID returns the identifier of the store's own root container.
	RootID() string

	// FindChild looks up a direct child of parentID by exact name,
	// optionally restricted by kind. Exactly one query; when several
	// nodes match, the first result returned by the store is canonical.
	FindChild(ctx context.Context, parentID, name string, kind Kind) (domain.Node, error)

	// ListChildren enumerates all direct, non-trashed children of a folder.
	ListChildren(ctx context.Context, parentID string) ([]domain.Node, error)

	// CreateFolder creates a folder node under parentID.
	CreateFolder(ctx context.Context, parentID, name string) (domain.Node, error)

	// CreateFile creates a file node under parentID with the given content.
	CreateFile(ctx context.Context, parentID, name, mimeType string, content []byte) (domain.Node, error)

	// UpdateContent rewrites a file's content wholesale, preserving its id.
	UpdateContent(ctx context.Context, id string, content []byte) (domain.Node, error)

	// Download fetches a file's full content.
	Download(ctx context.Context, id string) ([]byte, error)

	// Trash soft-deletes a node; it remains recoverable at the store level.
	Trash(ctx context.Context, id string) error

	// Rename changes a node's leaf name in place.
	Rename(ctx context.Context, id, newName string) (domain.Node, error)

	// Reparent adds newParentID to the node's parent-link set and removes
	// oldParentIDs, as a single store request.
	Reparent(ctx context.Context, id, newParentID string, oldParentIDs []string) error
}

// SessionSource supplies a ready-to-use authorized store handle.
// Every inbound operation acquires a fresh handle; no session state is
// shared across requests.
type SessionSource interface {
	Session(ctx context.Context) (RemoteStore, error)
}
