package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sheetgate/sheetgate/internal/session"
)

const spreadsheetMIME = "application/vnd.google-apps.spreadsheet"

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WebViewLink  string `json:"webViewLink"`
	ModifiedTime string `json:"modifiedTime"`
}

func toFileInfo(files []driveFile) []session.FileInfo {
	out := make([]session.FileInfo, 0, len(files))
	for _, f := range files {
		url := f.WebViewLink
		if url == "" {
			url = "https://docs.google.com/spreadsheets/d/" + f.ID
		}
		out = append(out, session.FileInfo{
			ID:       f.ID,
			Name:     f.Name,
			URL:      url,
			Modified: f.ModifiedTime,
		})
	}
	return out
}

func (c *Client) listFiles(ctx context.Context, query string) ([]session.FileInfo, error) {
	params := url.Values{
		"q":        {query},
		"fields":   {"files(id, name, webViewLink, modifiedTime)"},
		"orderBy":  {"modifiedTime desc"},
		"pageSize": {"25"},
	}
	var out struct {
		Files []driveFile `json:"files"`
	}
	u := c.driveURL + "/files?" + params.Encode()
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return toFileInfo(out.Files), nil
}

// ListSpreadsheets lists documents, constrained to folderID when set.
func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]session.FileInfo, error) {
	query := fmt.Sprintf("mimeType='%s'", spreadsheetMIME)
	if folderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", folderID)
	}
	return c.listFiles(ctx, query)
}

// Search finds documents matching the query by name or full text,
// constrained to folderID when set.
func (c *Client) Search(ctx context.Context, query, folderID string) ([]session.FileInfo, error) {
	escaped := escapeQuery(query)
	q := fmt.Sprintf("mimeType='%s' and (name contains '%s' or fullText contains '%s')",
		spreadsheetMIME, escaped, escaped)
	if folderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", folderID)
	}
	return c.listFiles(ctx, q)
}

// escapeQuery escapes the quote characters the directory query
// language treats specially.
func escapeQuery(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// Share grants one recipient a role on a document.
func (c *Client) Share(ctx context.Context, spreadsheetID, email, role string, notify bool) error {
	params := url.Values{
		"sendNotificationEmail": {fmt.Sprintf("%t", notify)},
	}
	u := fmt.Sprintf("%s/files/%s/permissions?%s",
		c.driveURL, url.PathEscape(spreadsheetID), params.Encode())
	body := map[string]any{
		"type":         "user",
		"role":         role,
		"emailAddress": email,
	}
	return c.do(ctx, http.MethodPost, u, body, nil)
}
