// Package hierarchy emulates a path-addressed directory tree on top of
// the flat remote store. The store models containment only through
// parent-link sets, so every path is resolved by repeated name-scoped
// queries, one level at a time; nothing is cached locally and the store
// stays the sole source of truth.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tlesnik44-code/origocode/internal/domain"
	"github.com/tlesnik44-code/origocode/internal/logger"
	"github.com/tlesnik44-code/origocode/internal/store"
	"github.com/tlesnik44-code/origocode/internal/vpath"
)

// Store performs file and folder operations inside the virtual
// namespace <rootName>/<projectName>/... . It keeps no state between
// calls beyond the fixed root folder name; every operation acquires a
// fresh authorized session handle.
type Store struct {
	sessions store.SessionSource
	rootName string
	log      logger.Logger
}

// New creates a hierarchy store over the given session source.
// rootName is the fixed top-level folder all projects live under.
func New(sessions store.SessionSource, rootName string) *Store {
	return &Store{
		sessions: sessions,
		rootName: rootName,
		log:      logger.With("component", "hierarchy"),
	}
}

// session validates the project name and opens a fresh store handle.
// Validation happens before any remote call.
func (s *Store) session(ctx context.Context, project string) (store.RemoteStore, error) {
	if err := vpath.ValidateProjectName(project); err != nil {
		return nil, err
	}
	return s.sessions.Session(ctx)
}

// requireFile rejects folder-shaped paths for file operations.
func requireFile(p vpath.Path) error {
	if p.IsFolder || p.Leaf == "" {
		return fmt.Errorf("%w: path does not name a file", domain.ErrInvalidPath)
	}
	return nil
}

// findOrCreateFolder resolves a child folder by name, creating it when
// absent. When several same-named folders exist under one parent the
// first result returned by the store is canonical; the store does not
// enforce uniqueness and neither does this layer.
func (s *Store) findOrCreateFolder(ctx context.Context, rs store.RemoteStore, parentID, name string) (string, error) {
	node, err := rs.FindChild(ctx, parentID, name, store.KindFolder)
	if err == nil {
		return node.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	created, err := rs.CreateFolder(ctx, parentID, name)
	if err != nil {
		return "", err
	}
	s.log.Debug("created folder", "name", name, "parent", parentID, "id", created.ID)
	return created.ID, nil
}

// ensureProjectRoot finds or creates <rootName>/<project> under the
// store's own root. Two round-trips when both already exist, up to four
// when creating both.
func (s *Store) ensureProjectRoot(ctx context.Context, rs store.RemoteStore, project string) (string, error) {
	rootID, err := s.findOrCreateFolder(ctx, rs, rs.RootID(), s.rootName)
	if err != nil {
		return "", err
	}
	return s.findOrCreateFolder(ctx, rs, rootID, project)
}

// ensureFolderChain resolves the project root and then descends the
// segments, creating missing folders. Used by all write-path operations;
// by design it never fails with not-found. Concurrent callers racing on
// a missing folder can create duplicate same-named folders; the store
// offers no compare-and-swap and this layer adds no serialization.
func (s *Store) ensureFolderChain(ctx context.Context, rs store.RemoteStore, project string, segments []string) (string, error) {
	currentID, err := s.ensureProjectRoot(ctx, rs, project)
	if err != nil {
		return "", err
	}
	for _, segment := range segments {
		currentID, err = s.findOrCreateFolder(ctx, rs, currentID, segment)
		if err != nil {
			return "", err
		}
	}
	return currentID, nil
}

// findFolderChain is the same descent as ensureFolderChain but creates
// nothing; the first missing segment (the fixed root and project folder
// included) short-circuits with domain.ErrNotFound. Used by all
// read-path and delete-path operations.
func (s *Store) findFolderChain(ctx context.Context, rs store.RemoteStore, project string, segments []string) (string, error) {
	currentID := rs.RootID()
	chain := append([]string{s.rootName, project}, segments...)
	for _, segment := range chain {
		node, err := rs.FindChild(ctx, currentID, segment, store.KindFolder)
		if err != nil {
			return "", err
		}
		currentID = node.ID
	}
	return currentID, nil
}

// displayPath synthesizes the human-readable path string
// rootName/project[/segments...].
func (s *Store) displayPath(project string, segments []string) string {
	parts := append([]string{s.rootName, project}, segments...)
	return strings.Join(parts, "/")
}

// List enumerates the direct children of the folder the path resolves
// to, partitioned into folders and files. The path may be folder- or
// file-shaped; every segment is treated as a folder name.
func (s *Store) List(ctx context.Context, project string, p vpath.Path) (domain.Listing, error) {
	rs, err := s.session(ctx, project)
	if err != nil {
		return domain.Listing{}, err
	}

	segments := p.AllSegments()
	folderID, err := s.findFolderChain(ctx, rs, project, segments)
	if err != nil {
		return domain.Listing{}, err
	}

	children, err := rs.ListChildren(ctx, folderID)
	if err != nil {
		return domain.Listing{}, err
	}

	listing := domain.Listing{Path: s.displayPath(project, segments)}
	for _, child := range children {
		entry := domain.Entry{
			Name:   child.Name,
			ID:     child.ID,
			WebURL: child.WebViewLink,
		}
		if child.IsFolder() {
			listing.Folders = append(listing.Folders, entry)
		} else {
			entry.MimeType = child.MimeType
			listing.Files = append(listing.Files, entry)
		}
	}
	return listing, nil
}

// Read downloads the full content of the named file as text.
func (s *Store) Read(ctx context.Context, project string, p vpath.Path) (domain.ReadResult, error) {
	if err := requireFile(p); err != nil {
		return domain.ReadResult{}, err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return domain.ReadResult{}, err
	}

	folderID, err := s.findFolderChain(ctx, rs, project, p.Folders)
	if err != nil {
		return domain.ReadResult{}, err
	}
	node, err := rs.FindChild(ctx, folderID, p.Leaf, store.KindFile)
	if err != nil {
		return domain.ReadResult{}, err
	}

	data, err := rs.Download(ctx, node.ID)
	if err != nil {
		return domain.ReadResult{}, err
	}
	return domain.ReadResult{Name: node.Name, FileID: node.ID, Content: string(data)}, nil
}

// Save creates the file with the given content, or overwrites the
// content of an existing file in place (id preserved). Missing parent
// folders are created.
func (s *Store) Save(ctx context.Context, project string, p vpath.Path, content string) (domain.SaveResult, error) {
	if err := requireFile(p); err != nil {
		return domain.SaveResult{}, err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return domain.SaveResult{}, err
	}
	return s.save(ctx, rs, project, p, content)
}

func (s *Store) save(ctx context.Context, rs store.RemoteStore, project string, p vpath.Path, content string) (domain.SaveResult, error) {
	folderID, err := s.ensureFolderChain(ctx, rs, project, p.Folders)
	if err != nil {
		return domain.SaveResult{}, err
	}

	existing, err := rs.FindChild(ctx, folderID, p.Leaf, store.KindFile)
	if err == nil {
		updated, err := rs.UpdateContent(ctx, existing.ID, []byte(content))
		if err != nil {
			return domain.SaveResult{}, err
		}
		s.log.Debug("replaced file content", "project", project, "path", p.String(), "id", updated.ID)
		return domain.SaveResult{FileID: updated.ID, WebViewLink: updated.WebViewLink}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.SaveResult{}, err
	}

	created, err := rs.CreateFile(ctx, folderID, p.Leaf, domain.MimeTypeText, []byte(content))
	if err != nil {
		return domain.SaveResult{}, err
	}
	s.log.Debug("created file", "project", project, "path", p.String(), "id", created.ID)
	return domain.SaveResult{Created: true, FileID: created.ID, WebViewLink: created.WebViewLink}, nil
}

// Append reads the current content (empty when the file does not
// exist), concatenates the optional newline separator and the new text,
// and delegates to save. Read and write are two separate remote calls
// with no atomicity between them; concurrent appenders can lose updates.
func (s *Store) Append(ctx context.Context, project string, p vpath.Path, text string, newline bool) (domain.SaveResult, error) {
	if err := requireFile(p); err != nil {
		return domain.SaveResult{}, err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return domain.SaveResult{}, err
	}

	current := ""
	folderID, err := s.findFolderChain(ctx, rs, project, p.Folders)
	if err == nil {
		node, err := rs.FindChild(ctx, folderID, p.Leaf, store.KindFile)
		if err == nil {
			data, err := rs.Download(ctx, node.ID)
			if err != nil {
				return domain.SaveResult{}, err
			}
			current = string(data)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.SaveResult{}, err
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.SaveResult{}, err
	}

	if current != "" && newline {
		current += "\n"
	}
	return s.save(ctx, rs, project, p, current+text)
}

// Remove marks the named file trashed. Soft delete, reversible at the
// store level only. Parents are never created on this path.
func (s *Store) Remove(ctx context.Context, project string, p vpath.Path) error {
	if err := requireFile(p); err != nil {
		return err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return err
	}

	folderID, err := s.findFolderChain(ctx, rs, project, p.Folders)
	if err != nil {
		return err
	}
	node, err := rs.FindChild(ctx, folderID, p.Leaf, store.KindFile)
	if err != nil {
		return err
	}

	if err := rs.Trash(ctx, node.ID); err != nil {
		return err
	}
	s.log.Info("trashed file", "project", project, "path", p.String(), "id", node.ID)
	return nil
}

// Rename applies a new leaf name to the named file. The new name must
// already be separator-free; the boundary layer enforces that.
func (s *Store) Rename(ctx context.Context, project string, p vpath.Path, newName string) (domain.Node, error) {
	if err := requireFile(p); err != nil {
		return domain.Node{}, err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return domain.Node{}, err
	}

	folderID, err := s.findFolderChain(ctx, rs, project, p.Folders)
	if err != nil {
		return domain.Node{}, err
	}
	node, err := rs.FindChild(ctx, folderID, p.Leaf, store.KindFile)
	if err != nil {
		return domain.Node{}, err
	}

	renamed, err := rs.Rename(ctx, node.ID, newName)
	if err != nil {
		return domain.Node{}, err
	}
	s.log.Info("renamed file", "project", project, "path", p.String(), "newName", newName)
	return renamed, nil
}

// Move reparents the named file into the destination folder: the
// destination is added to the parent-link set and all previous parents
// are removed in a single store request. The destination chain is
// created when createParents is set, otherwise a missing destination
// reports not-found and the source file is left unmoved.
func (s *Store) Move(ctx context.Context, project string, p vpath.Path, dest vpath.Path, createParents bool) error {
	if err := requireFile(p); err != nil {
		return err
	}
	rs, err := s.session(ctx, project)
	if err != nil {
		return err
	}

	srcFolderID, err := s.findFolderChain(ctx, rs, project, p.Folders)
	if err != nil {
		return err
	}
	node, err := rs.FindChild(ctx, srcFolderID, p.Leaf, store.KindFile)
	if err != nil {
		return err
	}

	destSegments := dest.AllSegments()
	var destID string
	if createParents {
		destID, err = s.ensureFolderChain(ctx, rs, project, destSegments)
	} else {
		destID, err = s.findFolderChain(ctx, rs, project, destSegments)
	}
	if err != nil {
		return err
	}

	oldParents := node.Parents
	if len(oldParents) == 0 {
		oldParents = []string{srcFolderID}
	}
	if err := rs.Reparent(ctx, node.ID, destID, oldParents); err != nil {
		return err
	}
	s.log.Info("moved file", "project", project, "path", p.String(), "dest", dest.String())
	return nil
}

// Mkdir resolves or creates the full folder chain for the path and
// returns the terminal folder id. Idempotent: repeating the call yields
// the same id.
func (s *Store) Mkdir(ctx context.Context, project string, p vpath.Path) (string, error) {
	rs, err := s.session(ctx, project)
	if err != nil {
		return "", err
	}
	return s.ensureFolderChain(ctx, rs, project, p.AllSegments())
}
