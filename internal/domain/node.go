package domain

// MimeTypeFolder is the MIME type the remote store assigns to folder nodes.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// MimeTypeText is the MIME type used for files created by this system.
const MimeTypeText = "text/plain"

// Node represents a single remote-store object, folder or file,
// addressed by an opaque store-assigned identifier.
type Node struct {
	// ID is the opaque, immutable store identifier
	ID string

	// Name is the display name within the parent folder
	Name string

	// MimeType distinguishes folders from files
	MimeType string

	// WebViewLink is a browser URL for the node, if the store provided one
	WebViewLink string

	// Parents is the parent-link set; usually exactly one entry,
	// but the store permits more
	Parents []string
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool {
	return n.MimeType == MimeTypeFolder
}

// Entry is a single row in a folder listing.
type Entry struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	MimeType string `json:"mimeType,omitempty"`
	WebURL   string `json:"webUrl,omitempty"`
}

// Listing is the result of enumerating a folder, partitioned by kind.
type Listing struct {
	// Path is the synthesized human-readable path string,
	// e.g. "origocode/myproject/notes"
	Path    string
	Folders []Entry
	Files   []Entry
}

// ReadResult is the outcome of reading a file.
type ReadResult struct {
	Name    string
	FileID  string
	Content string
}

// SaveResult is the outcome of a create-or-replace write (and of append,
// which delegates to save).
type SaveResult struct {
	// Created is true when the file did not exist and was created,
	// false when an existing file's content was replaced
	Created     bool
	FileID      string
	WebViewLink string
}
