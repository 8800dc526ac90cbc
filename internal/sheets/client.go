// Package sheets implements the backend operation handlers: the
// concrete spreadsheet and directory calls the gateway dispatches to.
// The HTTP clients speak the backend's REST surface directly and keep
// their error text inside the classifiable vocabulary (quota,
// forbidden, not found, invalid, unavailable).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ClientConfig binds the REST clients to the backend endpoints.
type ClientConfig struct {
	SheetsURL string
	DriveURL  string
	Token     string
	Timeout   time.Duration
}

// Client talks to the spreadsheet and directory REST APIs. It is safe
// for concurrent use; the underlying http.Client is shared.
type Client struct {
	http      *http.Client
	sheetsURL string
	driveURL  string
	token     string
}

// NewClient creates a REST client from config.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		sheetsURL: strings.TrimRight(cfg.SheetsURL, "/"),
		driveURL:  strings.TrimRight(cfg.DriveURL, "/"),
		token:     cfg.Token,
	}
}

// do executes one JSON request and decodes the response into out.
// Non-2xx statuses are folded into an error whose text the classifier
// can map.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("invalid backend response: %w", err)
		}
	}
	return nil
}

// statusError phrases HTTP failures so the classifier's substring
// rules land on the right category.
func statusError(code int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("quota exceeded (HTTP %d): %s", code, detail)
	case code == http.StatusForbidden:
		return fmt.Errorf("permission denied (HTTP %d): %s", code, detail)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("permission denied: unauthorized (HTTP %d)", code)
	case code == http.StatusNotFound:
		return fmt.Errorf("not found (HTTP %d): %s", code, detail)
	case code >= 500:
		return fmt.Errorf("backend unavailable (HTTP %d): %s", code, detail)
	default:
		return fmt.Errorf("invalid request (HTTP %d): %s", code, detail)
	}
}

// --- DocumentService ---

func (c *Client) valuesURL(spreadsheetID, rng string, params url.Values) string {
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.sheetsURL, url.PathEscape(spreadsheetID), url.PathEscape(rng))
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// GetValues reads a range. render is the value render option
// ("FORMATTED_VALUE" for data, "FORMULA" for formulas).
func (c *Client) GetValues(ctx context.Context, spreadsheetID, rng, render string) ([][]any, error) {
	params := url.Values{}
	if render != "" {
		params.Set("valueRenderOption", render)
	}
	var out struct {
		Values [][]any `json:"values"`
	}
	if err := c.do(ctx, http.MethodGet, c.valuesURL(spreadsheetID, rng, params), nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// UpdateValues writes a 2D block of values to a range.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, data [][]any) (int, error) {
	params := url.Values{"valueInputOption": {"USER_ENTERED"}}
	body := map[string]any{"values": data}
	var out struct {
		UpdatedCells int `json:"updatedCells"`
	}
	if err := c.do(ctx, http.MethodPut, c.valuesURL(spreadsheetID, rng, params), body, &out); err != nil {
		return 0, err
	}
	return out.UpdatedCells, nil
}

// BatchUpdateValues writes several ranges in one call.
func (c *Client) BatchUpdateValues(ctx context.Context, spreadsheetID string, ranges map[string][][]any) (int, error) {
	data := make([]map[string]any, 0, len(ranges))
	for rng, values := range ranges {
		data = append(data, map[string]any{"range": rng, "values": values})
	}
	body := map[string]any{
		"valueInputOption": "USER_ENTERED",
		"data":             data,
	}
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values:batchUpdate",
		c.sheetsURL, url.PathEscape(spreadsheetID))
	var out struct {
		TotalUpdatedCells int `json:"totalUpdatedCells"`
	}
	if err := c.do(ctx, http.MethodPost, u, body, &out); err != nil {
		return 0, err
	}
	return out.TotalUpdatedCells, nil
}

type sheetProps struct {
	Properties struct {
		SheetID int    `json:"sheetId"`
		Title   string `json:"title"`
	} `json:"properties"`
}

type spreadsheetMeta struct {
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []sheetProps `json:"sheets"`
}

func (c *Client) getMeta(ctx context.Context, spreadsheetID string) (*spreadsheetMeta, error) {
	u := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=properties.title,sheets.properties",
		c.sheetsURL, url.PathEscape(spreadsheetID))
	var out spreadsheetMeta
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSheets returns the titles of all tabs in a spreadsheet.
func (c *Client) ListSheets(ctx context.Context, spreadsheetID string) ([]string, error) {
	meta, err := c.getMeta(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// GetTitle returns the spreadsheet's document title.
func (c *Client) GetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	meta, err := c.getMeta(ctx, spreadsheetID)
	if err != nil {
		return "", err
	}
	return meta.Properties.Title, nil
}

func (c *Client) sheetID(ctx context.Context, spreadsheetID, sheet string) (int, error) {
	meta, err := c.getMeta(ctx, spreadsheetID)
	if err != nil {
		return 0, err
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title == sheet {
			return s.Properties.SheetID, nil
		}
	}
	return 0, fmt.Errorf("sheet not found: %s", sheet)
}

// batchUpdate posts structural requests against a spreadsheet.
func (c *Client) batchUpdate(ctx context.Context, spreadsheetID string, requests []map[string]any, out any) error {
	u := fmt.Sprintf("%s/v4/spreadsheets/%s:batchUpdate",
		c.sheetsURL, url.PathEscape(spreadsheetID))
	return c.do(ctx, http.MethodPost, u, map[string]any{"requests": requests}, out)
}

// AddSheet creates a new tab.
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	return c.batchUpdate(ctx, spreadsheetID, []map[string]any{
		{"addSheet": map[string]any{"properties": map[string]any{"title": title}}},
	}, nil)
}

// RenameSheet changes a tab's title.
func (c *Client) RenameSheet(ctx context.Context, spreadsheetID, sheet, newName string) error {
	id, err := c.sheetID(ctx, spreadsheetID, sheet)
	if err != nil {
		return err
	}
	return c.batchUpdate(ctx, spreadsheetID, []map[string]any{
		{"updateSheetProperties": map[string]any{
			"properties": map[string]any{"sheetId": id, "title": newName},
			"fields":     "title",
		}},
	}, nil)
}

// CopySheet copies a tab into another spreadsheet, then renames the
// pasted copy to the requested destination name.
func (c *Client) CopySheet(ctx context.Context, srcSpreadsheet, srcSheet, dstSpreadsheet, dstSheet string) error {
	id, err := c.sheetID(ctx, srcSpreadsheet, srcSheet)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v4/spreadsheets/%s/sheets/%d:copyTo",
		c.sheetsURL, url.PathEscape(srcSpreadsheet), id)
	var copied struct {
		SheetID int `json:"sheetId"`
	}
	body := map[string]any{"destinationSpreadsheetId": dstSpreadsheet}
	if err := c.do(ctx, http.MethodPost, u, body, &copied); err != nil {
		return err
	}

	return c.batchUpdate(ctx, dstSpreadsheet, []map[string]any{
		{"updateSheetProperties": map[string]any{
			"properties": map[string]any{"sheetId": copied.SheetID, "title": dstSheet},
			"fields":     "title",
		}},
	}, nil)
}

// InsertDimension inserts count rows or columns ("ROWS"/"COLUMNS")
// starting at the 0-based start index.
func (c *Client) InsertDimension(ctx context.Context, spreadsheetID, sheet, dimension string, count, start int) error {
	id, err := c.sheetID(ctx, spreadsheetID, sheet)
	if err != nil {
		return err
	}
	return c.batchUpdate(ctx, spreadsheetID, []map[string]any{
		{"insertDimension": map[string]any{
			"range": map[string]any{
				"sheetId":    id,
				"dimension":  dimension,
				"startIndex": start,
				"endIndex":   start + count,
			},
			"inheritFromBefore": false,
		}},
	}, nil)
}

// CreateSpreadsheet creates a new document and returns its ID.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	u := c.sheetsURL + "/v4/spreadsheets"
	body := map[string]any{"properties": map[string]any{"title": title}}
	var out struct {
		SpreadsheetID string `json:"spreadsheetId"`
	}
	if err := c.do(ctx, http.MethodPost, u, body, &out); err != nil {
		return "", err
	}
	return out.SpreadsheetID, nil
}
