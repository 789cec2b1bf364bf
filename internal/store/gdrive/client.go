package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/tlesnik44-code/origocode/internal/domain"
	"github.com/tlesnik44-code/origocode/internal/store"
)

const (
	// PageSize is the number of files to fetch per list request
	PageSize = 100

	nodeFields  = "id, name, mimeType, parents, webViewLink"
	listFields  = "nextPageToken, files(id, name, mimeType, parents, webViewLink)"
	driveRootID = "root"
)

// Client implements store.RemoteStore against the Google Drive v3 API.
// It holds no state beyond the authorized service handle it was built
// with; all hierarchy is resolved by the callers, one query at a time.
type Client struct {
	service *drive.Service
}

// NewClient wraps an authorized Drive service.
func NewClient(service *drive.Service) *Client {
	return &Client{service: service}
}

// RootID returns Drive's alias for the account root container.
func (c *Client) RootID() string {
	return driveRootID
}

// FindChild looks up a direct child by exact name under a parent.
// One query, first match canonical; Drive does not enforce name
// uniqueness under a parent and no ordering is assumed.
func (c *Client) FindChild(ctx context.Context, parentID, name string, kind store.Kind) (domain.Node, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQueryString(name), escapeQueryString(parentID))
	switch kind {
	case store.KindFolder:
		query += fmt.Sprintf(" and mimeType = '%s'", domain.MimeTypeFolder)
	case store.KindFile:
		query += fmt.Sprintf(" and mimeType != '%s'", domain.MimeTypeFolder)
	}

	fileList, err := c.service.Files.List().
		Q(query).
		PageSize(1).
		Fields(googleapi.Field("files(" + nodeFields + ")")).
		Context(ctx).Do()
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	if len(fileList.Files) == 0 {
		return domain.Node{}, domain.ErrNotFound
	}
	return nodeFromDrive(fileList.Files[0]), nil
}

// ListChildren enumerates all non-trashed children of a folder,
// following pagination.
func (c *Client) ListChildren(ctx context.Context, parentID string) ([]domain.Node, error) {
	var result []domain.Node
	pageToken := ""

	for {
		query := fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryString(parentID))
		call := c.service.Files.List().
			Q(query).
			PageSize(PageSize).
			Fields(listFields)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Context(ctx).Do()
		if err != nil {
			return nil, mapError(err)
		}
		for _, f := range fileList.Files {
			result = append(result, nodeFromDrive(f))
		}

		pageToken = fileList.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return result, nil
}

// CreateFolder creates a folder node under parentID.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (domain.Node, error) {
	created, err := c.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: domain.MimeTypeFolder,
		Parents:  []string{parentID},
	}).
		Fields(nodeFields).
		Context(ctx).Do()
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return nodeFromDrive(created), nil
}

// CreateFile creates a file node with the given content under parentID.
func (c *Client) CreateFile(ctx context.Context, parentID, name, mimeType string, content []byte) (domain.Node, error) {
	created, err := c.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{parentID},
	}).
		Fields(nodeFields).
		Media(bytes.NewReader(content)).
		Context(ctx).Do()
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return nodeFromDrive(created), nil
}

// UpdateContent rewrites a file's content wholesale; the node id and
// name are untouched.
func (c *Client) UpdateContent(ctx context.Context, id string, content []byte) (domain.Node, error) {
	updated, err := c.service.Files.Update(id, &drive.File{}).
		Fields(nodeFields).
		Media(bytes.NewReader(content)).
		Context(ctx).Do()
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return nodeFromDrive(updated), nil
}

// Download fetches a file's full content as bytes.
func (c *Client) Download(ctx context.Context, id string) (data []byte, err error) {
	resp, err := c.service.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, mapError(err)
	}
	defer func() {
		err = errors.Join(err, resp.Body.Close())
	}()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading download body: %v", domain.ErrRemote, err)
	}
	return data, nil
}

// Trash marks a node trashed. Soft delete only; no hard delete path exists.
func (c *Client) Trash(ctx context.Context, id string) error {
	_, err := c.service.Files.Update(id, &drive.File{Trashed: true}).
		Context(ctx).Do()
	return mapError(err)
}

// Rename changes a node's leaf name in place.
func (c *Client) Rename(ctx context.Context, id, newName string) (domain.Node, error) {
	updated, err := c.service.Files.Update(id, &drive.File{Name: newName}).
		Fields(nodeFields).
		Context(ctx).Do()
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return nodeFromDrive(updated), nil
}

// Reparent adds the destination parent and removes the previous parent
// set in a single Files.Update request, so there is no partial-failure
// window between the two edits on this store.
func (c *Client) Reparent(ctx context.Context, id, newParentID string, oldParentIDs []string) error {
	_, err := c.service.Files.Update(id, &drive.File{}).
		AddParents(newParentID).
		RemoveParents(strings.Join(oldParentIDs, ",")).
		Context(ctx).Do()
	return mapError(err)
}

// escapeQueryString escapes special characters in Drive query strings.
// Backslash first, then single quote.
func escapeQueryString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	return s
}

// nodeFromDrive converts a Drive file to a domain.Node.
func nodeFromDrive(f *drive.File) domain.Node {
	return domain.Node{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}
}

// mapError converts Google API errors to domain errors. 404 becomes
// ErrNotFound; everything else is a remote fault the boundary layer
// surfaces as a server error. No retry happens at this layer.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 404 {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}

	// Fallback for non-googleapi errors (transport failures etc.)
	if strings.Contains(err.Error(), "notFound") {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrRemote, err)
}

// Compile-time interface check
var _ store.RemoteStore = (*Client)(nil)
