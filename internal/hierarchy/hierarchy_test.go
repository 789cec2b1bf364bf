package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/tlesnik44-code/origocode/internal/domain"
	"github.com/tlesnik44-code/origocode/internal/testutil"
	"github.com/tlesnik44-code/origocode/internal/vpath"
)

func newTestStore() (*Store, *testutil.FakeRemote) {
	remote := testutil.NewFakeRemote()
	return New(&testutil.FakeSource{Remote: remote}, "origocode"), remote
}

func mustPath(t *testing.T, raw string) vpath.Path {
	t.Helper()
	p, err := vpath.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", raw, err)
	}
	return p
}

func TestMkdirIdempotent(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	first, err := s.Mkdir(ctx, "proj", mustPath(t, "a/b/c/"))
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	second, err := s.Mkdir(ctx, "proj", mustPath(t, "a/b/c/"))
	if err != nil {
		t.Fatalf("Mkdir (second): %v", err)
	}
	if first != second {
		t.Errorf("Mkdir not idempotent: %q != %q", first, second)
	}
}

func TestSaveThenRead(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "notes/hello.txt")

	saved, err := s.Save(ctx, "proj", p, "hello")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !saved.Created {
		t.Errorf("Save of new file: Created = false")
	}
	if saved.FileID == "" || saved.WebViewLink == "" {
		t.Errorf("Save result incomplete: %+v", saved)
	}

	got, err := s.Read(ctx, "proj", p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Content != "hello" {
		t.Errorf("Read content = %q, want %q", got.Content, "hello")
	}
	if got.Name != "hello.txt" {
		t.Errorf("Read name = %q", got.Name)
	}
	if got.FileID != saved.FileID {
		t.Errorf("Read id = %q, want %q", got.FileID, saved.FileID)
	}
}

func TestSaveReplacePreservesID(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "doc.txt")

	first, err := s.Save(ctx, "proj", p, "v1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := s.Save(ctx, "proj", p, "v2")
	if err != nil {
		t.Fatalf("Save (replace): %v", err)
	}
	if second.Created {
		t.Errorf("replace reported Created = true")
	}
	if second.FileID != first.FileID {
		t.Errorf("replace changed id: %q -> %q", first.FileID, second.FileID)
	}

	got, err := s.Read(ctx, "proj", p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Content != "v2" {
		t.Errorf("content = %q, want %q", got.Content, "v2")
	}
}

func TestAppend(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "log.txt")

	if _, err := s.Save(ctx, "proj", p, "a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Append(ctx, "proj", p, "b", true); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Read(ctx, "proj", p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Content != "a\nb" {
		t.Errorf("content = %q, want %q", got.Content, "a\nb")
	}
}

func TestAppendNoNewline(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "log.txt")

	if _, err := s.Save(ctx, "proj", p, "a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Append(ctx, "proj", p, "b", false); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, _ := s.Read(ctx, "proj", p)
	if got.Content != "ab" {
		t.Errorf("content = %q, want %q", got.Content, "ab")
	}
}

// Appending to a non-existent file creates it with exactly the appended
// text, no leading separator.
func TestAppendCreatesFile(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "new/deep/log.txt")

	res, err := s.Append(ctx, "proj", p, "first line", true)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !res.Created {
		t.Errorf("Append to missing file: Created = false")
	}

	got, err := s.Read(ctx, "proj", p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Content != "first line" {
		t.Errorf("content = %q, want %q", got.Content, "first line")
	}
}

func TestRemoveThenRead(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "notes/gone.txt")

	if _, err := s.Save(ctx, "proj", p, "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(ctx, "proj", p); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := s.Read(ctx, "proj", p); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Read after Remove = %v, want ErrNotFound", err)
	}

	listing, err := s.List(ctx, "proj", mustPath(t, "notes/"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, f := range listing.Files {
		if f.Name == "gone.txt" {
			t.Errorf("trashed file still listed")
		}
	}
}

func TestRemoveMissing(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	err := s.Remove(ctx, "proj", mustPath(t, "nope.txt"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Remove missing = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	s, remote := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "a/old.txt")

	saved, err := s.Save(ctx, "proj", p, "x")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	renamed, err := s.Rename(ctx, "proj", p, "new.txt")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.ID != saved.FileID {
		t.Errorf("rename changed id")
	}
	if n := remote.ByID(saved.FileID); n.Name != "new.txt" {
		t.Errorf("stored name = %q, want %q", n.Name, "new.txt")
	}
}

func TestMove(t *testing.T) {
	s, remote := newTestStore()
	ctx := context.Background()
	src := mustPath(t, "inbox/report.txt")

	saved, err := s.Save(ctx, "proj", src, "x")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Move(ctx, "proj", src, mustPath(t, "archive/2024/"), true); err != nil {
		t.Fatalf("Move: %v", err)
	}

	// Gone from the source folder, present at the destination.
	if _, err := s.Read(ctx, "proj", src); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Read at source after Move = %v, want ErrNotFound", err)
	}
	got, err := s.Read(ctx, "proj", mustPath(t, "archive/2024/report.txt"))
	if err != nil {
		t.Fatalf("Read at destination: %v", err)
	}
	if got.FileID != saved.FileID {
		t.Errorf("move changed id")
	}

	// The old parent set was fully replaced.
	if n := remote.ByID(saved.FileID); len(n.Parents) != 1 {
		t.Errorf("parent-link set = %v, want exactly one parent", n.Parents)
	}
}

func TestMoveMissingDestination(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	src := mustPath(t, "inbox/report.txt")

	if _, err := s.Save(ctx, "proj", src, "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := s.Move(ctx, "proj", src, mustPath(t, "missing/dest/"), false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Move to missing dest = %v, want ErrNotFound", err)
	}

	// Source file unmoved.
	if _, err := s.Read(ctx, "proj", src); err != nil {
		t.Errorf("source file gone after failed move: %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Save(ctx, "proj", mustPath(t, "docs/readme.txt"), "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Mkdir(ctx, "proj", mustPath(t, "docs/img/")); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	listing, err := s.List(ctx, "proj", mustPath(t, "docs/"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if listing.Path != "origocode/proj/docs" {
		t.Errorf("Path = %q, want %q", listing.Path, "origocode/proj/docs")
	}
	if len(listing.Folders) != 1 || listing.Folders[0].Name != "img" {
		t.Errorf("Folders = %+v", listing.Folders)
	}
	if len(listing.Files) != 1 || listing.Files[0].Name != "readme.txt" {
		t.Errorf("Files = %+v", listing.Files)
	}
	if listing.Files[0].MimeType != domain.MimeTypeText {
		t.Errorf("file mimeType = %q", listing.Files[0].MimeType)
	}
}

func TestListProjectRoot(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Save(ctx, "proj", mustPath(t, "top.txt"), "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	listing, err := s.List(ctx, "proj", mustPath(t, ""))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if listing.Path != "origocode/proj" {
		t.Errorf("Path = %q", listing.Path)
	}
	if len(listing.Files) != 1 {
		t.Errorf("Files = %+v", listing.Files)
	}
}

// Read paths never create: an unresolved intermediate folder
// short-circuits with not-found and performs no writes.
func TestReadMissingChainCreatesNothing(t *testing.T) {
	s, remote := newTestStore()
	ctx := context.Background()

	if _, err := s.Read(ctx, "proj", mustPath(t, "a/b/c.txt")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read = %v, want ErrNotFound", err)
	}
	if remote.NodeCount() != 0 {
		t.Errorf("read path created %d nodes", remote.NodeCount())
	}
}

// Validation failures are detected before any remote call.
func TestInvalidProjectNameBeforeRemoteCalls(t *testing.T) {
	s, remote := newTestStore()
	ctx := context.Background()

	_, err := s.Save(ctx, "bad name", mustPath(t, "x.txt"), "x")
	if !errors.Is(err, domain.ErrInvalidProjectName) {
		t.Fatalf("Save = %v, want ErrInvalidProjectName", err)
	}
	if remote.Calls != 0 {
		t.Errorf("remote store called %d times during validation failure", remote.Calls)
	}
}

// File operations reject folder-shaped paths.
func TestFileOpsRejectFolderPaths(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	folder := mustPath(t, "a/b/")

	if _, err := s.Read(ctx, "proj", folder); !errors.Is(err, domain.ErrInvalidPath) {
		t.Errorf("Read(folder) = %v, want ErrInvalidPath", err)
	}
	if _, err := s.Save(ctx, "proj", folder, "x"); !errors.Is(err, domain.ErrInvalidPath) {
		t.Errorf("Save(folder) = %v, want ErrInvalidPath", err)
	}
	if err := s.Remove(ctx, "proj", folder); !errors.Is(err, domain.ErrInvalidPath) {
		t.Errorf("Remove(folder) = %v, want ErrInvalidPath", err)
	}
}

// Two projects with the same file path resolve to distinct nodes under
// distinct project roots.
func TestProjectIsolation(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := mustPath(t, "shared.txt")

	a, err := s.Save(ctx, "proj-a", p, "from a")
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	b, err := s.Save(ctx, "proj-b", p, "from b")
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if a.FileID == b.FileID {
		t.Errorf("projects share a file node")
	}

	got, _ := s.Read(ctx, "proj-a", p)
	if got.Content != "from a" {
		t.Errorf("proj-a content = %q", got.Content)
	}
}
