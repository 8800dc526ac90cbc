// Package session holds the lifecycle-scoped backend session: the
// service handles and immutable configuration created once at process
// startup and shared read-only across all concurrent request handlers.
// The gateway borrows the session; it never constructs or closes one.
package session

import "context"

// DocumentService is the spreadsheet-content side of the backend:
// values, sheet tabs, and structural edits.
type DocumentService interface {
	GetValues(ctx context.Context, spreadsheetID, rng, render string) ([][]any, error)
	UpdateValues(ctx context.Context, spreadsheetID, rng string, data [][]any) (updatedCells int, err error)
	BatchUpdateValues(ctx context.Context, spreadsheetID string, ranges map[string][][]any) (updatedCells int, err error)
	ListSheets(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	RenameSheet(ctx context.Context, spreadsheetID, sheet, newName string) error
	CopySheet(ctx context.Context, srcSpreadsheet, srcSheet, dstSpreadsheet, dstSheet string) error
	InsertDimension(ctx context.Context, spreadsheetID, sheet, dimension string, count, start int) error
	CreateSpreadsheet(ctx context.Context, title string) (id string, err error)
	GetTitle(ctx context.Context, spreadsheetID string) (string, error)
}

// DirectoryService is the file-directory side of the backend:
// listing, searching, and sharing documents.
type DirectoryService interface {
	ListSpreadsheets(ctx context.Context, folderID string) ([]FileInfo, error)
	Search(ctx context.Context, query, folderID string) ([]FileInfo, error)
	Share(ctx context.Context, spreadsheetID, email, role string, notify bool) error
}

// FileInfo describes one document in a directory listing.
type FileInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// Session is the shared backend context. Fields are set at
// construction and never mutated; the zero ScopeID means searches and
// listings are unscoped. If a future service handle is not safe for
// concurrent use it must carry its own mutex — the gateway does not
// serialize requests.
type Session struct {
	Documents DocumentService
	Directory DirectoryService
	ScopeID   string
}

// New builds a session around pre-authenticated service handles.
func New(docs DocumentService, dir DirectoryService, scopeID string) *Session {
	return &Session{Documents: docs, Directory: dir, ScopeID: scopeID}
}
