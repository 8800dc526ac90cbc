package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sheetgate/sheetgate/internal/audit"
)

// --- Shared output types ---

// callOutput is the result of any gateway-routed tool call.
type callOutput struct {
	Success       bool         `json:"success"`
	Payload       any          `json:"payload,omitempty"`
	Error         *errorOutput `json:"error,omitempty"`
	CorrelationID string       `json:"correlation_id"`
}

// errorOutput is the classified, client-safe failure shape.
type errorOutput struct {
	Category          string `json:"category"`
	Message           string `json:"message"`
	Retryable         bool   `json:"retryable"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// --- Input types ---

type ListSpreadsheetsInput struct {
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type CreateSpreadsheetInput struct {
	Title         string `json:"title" jsonschema:"title of the new spreadsheet"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type SheetRangeInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string `json:"sheet" jsonschema:"the name of the sheet"`
	Range         string `json:"range,omitempty" jsonschema:"optional cell range in A1 notation"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type UpdateCellsInput struct {
	SpreadsheetID string  `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string  `json:"sheet" jsonschema:"the name of the sheet"`
	Range         string  `json:"range" jsonschema:"cell range in A1 notation"`
	Data          [][]any `json:"data" jsonschema:"2D array of values to write"`
	CorrelationID string  `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type BatchUpdateCellsInput struct {
	SpreadsheetID string             `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string             `json:"sheet" jsonschema:"the name of the sheet"`
	Ranges        map[string][][]any `json:"ranges" jsonschema:"mapping of A1 range to 2D array of values"`
	CorrelationID string             `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type AddRowsInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string `json:"sheet" jsonschema:"the name of the sheet"`
	Count         int    `json:"count" jsonschema:"number of rows to add"`
	StartRow      int    `json:"start_row,omitempty" jsonschema:"0-based row index to insert at"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type AddColumnsInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string `json:"sheet" jsonschema:"the name of the sheet"`
	Count         int    `json:"count" jsonschema:"number of columns to add"`
	StartColumn   int    `json:"start_column,omitempty" jsonschema:"0-based column index to insert at"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type SpreadsheetInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type CreateSheetInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Title         string `json:"title" jsonschema:"title for the new sheet tab"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type RenameSheetInput struct {
	Spreadsheet   string `json:"spreadsheet" jsonschema:"spreadsheet ID"`
	Sheet         string `json:"sheet" jsonschema:"current sheet name"`
	NewName       string `json:"new_name" jsonschema:"new sheet name"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type CopySheetInput struct {
	SrcSpreadsheet string `json:"src_spreadsheet" jsonschema:"source spreadsheet ID"`
	SrcSheet       string `json:"src_sheet" jsonschema:"source sheet name"`
	DstSpreadsheet string `json:"dst_spreadsheet" jsonschema:"destination spreadsheet ID"`
	DstSheet       string `json:"dst_sheet" jsonschema:"destination sheet name"`
	CorrelationID  string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type Recipient struct {
	EmailAddress string `json:"email_address" jsonschema:"recipient email address"`
	Role         string `json:"role,omitempty" jsonschema:"reader, commenter, or writer"`
}

type ShareSpreadsheetInput struct {
	SpreadsheetID    string      `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet to share"`
	Recipients       []Recipient `json:"recipients" jsonschema:"list of recipients"`
	SendNotification bool        `json:"send_notification,omitempty" jsonschema:"whether to send notification emails"`
	CorrelationID    string      `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type SearchInput struct {
	Query         string `json:"query" jsonschema:"search query for spreadsheet name or content"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type SheetQuery struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	Sheet         string `json:"sheet" jsonschema:"the name of the sheet"`
	Range         string `json:"range" jsonschema:"cell range in A1 notation"`
}

type MultipleSheetDataInput struct {
	Queries       []SheetQuery `json:"queries" jsonschema:"list of range queries"`
	CorrelationID string       `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type MultipleSummaryInput struct {
	SpreadsheetIDs []string `json:"spreadsheet_ids" jsonschema:"list of spreadsheet IDs to summarize"`
	RowsToFetch    int      `json:"rows_to_fetch,omitempty" jsonschema:"rows to fetch per sheet including header, default 5"`
	CorrelationID  string   `json:"correlation_id,omitempty" jsonschema:"opaque request correlation token"`
}

type AuditQueryInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by error category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"most recent entries to return, default 50"`
}

type AuditQueryOutput struct {
	Entries []audit.Entry `json:"entries"`
}

// --- Handlers ---

func (s *Server) handleListSpreadsheets(ctx context.Context, req *mcpsdk.CallToolRequest, in ListSpreadsheetsInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "list_spreadsheets", in.CorrelationID, map[string]any{})
}

func (s *Server) handleCreateSpreadsheet(ctx context.Context, req *mcpsdk.CallToolRequest, in CreateSpreadsheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "create_spreadsheet", in.CorrelationID, map[string]any{"title": in.Title})
}

func sheetRangeArgs(in SheetRangeInput) map[string]any {
	args := map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"sheet":          in.Sheet,
	}
	if in.Range != "" {
		args["range"] = in.Range
	}
	return args
}

func (s *Server) handleGetSheetData(ctx context.Context, req *mcpsdk.CallToolRequest, in SheetRangeInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "get_sheet_data", in.CorrelationID, sheetRangeArgs(in))
}

func (s *Server) handleGetSheetFormulas(ctx context.Context, req *mcpsdk.CallToolRequest, in SheetRangeInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "get_sheet_formulas", in.CorrelationID, sheetRangeArgs(in))
}

func (s *Server) handleUpdateCells(ctx context.Context, req *mcpsdk.CallToolRequest, in UpdateCellsInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "update_cells", in.CorrelationID, map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"sheet":          in.Sheet,
		"range":          in.Range,
		"data":           in.Data,
	})
}

func (s *Server) handleBatchUpdateCells(ctx context.Context, req *mcpsdk.CallToolRequest, in BatchUpdateCellsInput) (*mcpsdk.CallToolResult, callOutput, error) {
	ranges := make(map[string]any, len(in.Ranges))
	for rng, values := range in.Ranges {
		ranges[rng] = values
	}
	return s.invoke(ctx, "batch_update_cells", in.CorrelationID, map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"sheet":          in.Sheet,
		"ranges":         ranges,
	})
}

func (s *Server) handleAddRows(ctx context.Context, req *mcpsdk.CallToolRequest, in AddRowsInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "add_rows", in.CorrelationID, map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"sheet":          in.Sheet,
		"count":          in.Count,
		"start_row":      in.StartRow,
	})
}

func (s *Server) handleAddColumns(ctx context.Context, req *mcpsdk.CallToolRequest, in AddColumnsInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "add_columns", in.CorrelationID, map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"sheet":          in.Sheet,
		"count":          in.Count,
		"start_column":   in.StartColumn,
	})
}

func (s *Server) handleListSheets(ctx context.Context, req *mcpsdk.CallToolRequest, in SpreadsheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "list_sheets", in.CorrelationID, map[string]any{"spreadsheet_id": in.SpreadsheetID})
}

func (s *Server) handleCreateSheet(ctx context.Context, req *mcpsdk.CallToolRequest, in CreateSheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "create_sheet", in.CorrelationID, map[string]any{
		"spreadsheet_id": in.SpreadsheetID,
		"title":          in.Title,
	})
}

func (s *Server) handleRenameSheet(ctx context.Context, req *mcpsdk.CallToolRequest, in RenameSheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "rename_sheet", in.CorrelationID, map[string]any{
		"spreadsheet": in.Spreadsheet,
		"sheet":       in.Sheet,
		"new_name":    in.NewName,
	})
}

func (s *Server) handleCopySheet(ctx context.Context, req *mcpsdk.CallToolRequest, in CopySheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "copy_sheet", in.CorrelationID, map[string]any{
		"src_spreadsheet": in.SrcSpreadsheet,
		"src_sheet":       in.SrcSheet,
		"dst_spreadsheet": in.DstSpreadsheet,
		"dst_sheet":       in.DstSheet,
	})
}

func (s *Server) handleShareSpreadsheet(ctx context.Context, req *mcpsdk.CallToolRequest, in ShareSpreadsheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	recipients := make([]any, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		recipients = append(recipients, map[string]any{
			"email_address": r.EmailAddress,
			"role":          r.Role,
		})
	}
	return s.invoke(ctx, "share_spreadsheet", in.CorrelationID, map[string]any{
		"spreadsheet_id":    in.SpreadsheetID,
		"recipients":        recipients,
		"send_notification": in.SendNotification,
	})
}

func (s *Server) handleSearch(ctx context.Context, req *mcpsdk.CallToolRequest, in SearchInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "search_spreadsheets", in.CorrelationID, map[string]any{"query": in.Query})
}

func (s *Server) handleFetch(ctx context.Context, req *mcpsdk.CallToolRequest, in SpreadsheetInput) (*mcpsdk.CallToolResult, callOutput, error) {
	return s.invoke(ctx, "fetch_spreadsheet", in.CorrelationID, map[string]any{"spreadsheet_id": in.SpreadsheetID})
}

func (s *Server) handleMultipleSheetData(ctx context.Context, req *mcpsdk.CallToolRequest, in MultipleSheetDataInput) (*mcpsdk.CallToolResult, callOutput, error) {
	queries := make([]any, 0, len(in.Queries))
	for _, q := range in.Queries {
		queries = append(queries, map[string]any{
			"spreadsheet_id": q.SpreadsheetID,
			"sheet":          q.Sheet,
			"range":          q.Range,
		})
	}
	return s.invoke(ctx, "get_multiple_sheet_data", in.CorrelationID, map[string]any{"queries": queries})
}

func (s *Server) handleMultipleSummary(ctx context.Context, req *mcpsdk.CallToolRequest, in MultipleSummaryInput) (*mcpsdk.CallToolResult, callOutput, error) {
	ids := make([]any, 0, len(in.SpreadsheetIDs))
	for _, id := range in.SpreadsheetIDs {
		ids = append(ids, id)
	}
	args := map[string]any{"spreadsheet_ids": ids}
	if in.RowsToFetch > 0 {
		args["rows_to_fetch"] = in.RowsToFetch
	}
	return s.invoke(ctx, "get_multiple_spreadsheet_summary", in.CorrelationID, args)
}

// handleAuditQuery reads the gateway's in-memory audit log. It does
// not route through the admission pipeline: inspecting the record must
// stay possible while the limiter is saturated.
func (s *Server) handleAuditQuery(ctx context.Context, req *mcpsdk.CallToolRequest, in AuditQueryInput) (*mcpsdk.CallToolResult, AuditQueryOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}
	entries := s.gw.Audit().Query(in.Category, limit)
	return nil, AuditQueryOutput{Entries: entries}, nil
}

// registerTools adds all gateway tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_spreadsheets",
		Description: "List all spreadsheets in the configured folder.",
	}, s.handleListSpreadsheets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_spreadsheet",
		Description: "Create a new spreadsheet.",
	}, s.handleCreateSpreadsheet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_sheet_data",
		Description: "Get data from a sheet, optionally limited to an A1 range.",
	}, s.handleGetSheetData)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_sheet_formulas",
		Description: "Get formulas from a sheet, optionally limited to an A1 range.",
	}, s.handleGetSheetFormulas)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_cells",
		Description: "Update cells in an A1 range with a 2D array of values.",
	}, s.handleUpdateCells)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "batch_update_cells",
		Description: "Update multiple A1 ranges in one call.",
	}, s.handleBatchUpdateCells)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_rows",
		Description: "Insert rows into a sheet.",
	}, s.handleAddRows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_columns",
		Description: "Insert columns into a sheet.",
	}, s.handleAddColumns)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_sheets",
		Description: "List all sheet tabs in a spreadsheet.",
	}, s.handleListSheets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_sheet",
		Description: "Add a new sheet tab to an existing spreadsheet.",
	}, s.handleCreateSheet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_sheet",
		Description: "Rename a sheet tab.",
	}, s.handleRenameSheet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copy_sheet",
		Description: "Copy a sheet tab from one spreadsheet to another.",
	}, s.handleCopySheet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "share_spreadsheet",
		Description: "Share a spreadsheet with recipients by email. Invalid recipients are reported without aborting the rest.",
	}, s.handleShareSpreadsheet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "search_spreadsheets",
		Description: "Search spreadsheets by name or content.",
	}, s.handleSearch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "fetch_spreadsheet",
		Description: "Fetch a spreadsheet's complete content and metadata.",
	}, s.handleFetch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_multiple_sheet_data",
		Description: "Get data from multiple ranges across spreadsheets. Per-query errors are reported inline.",
	}, s.handleMultipleSheetData)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_multiple_spreadsheet_summary",
		Description: "Summarize multiple spreadsheets: tabs, headers, and first rows.",
	}, s.handleMultipleSummary)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gateway_audit",
		Description: "Query the gateway's recent admission decisions and call outcomes.",
	}, s.handleAuditQuery)
}
