package sheets

import (
	"context"
	"fmt"

	"github.com/sheetgate/sheetgate/internal/session"
	"github.com/sheetgate/sheetgate/internal/validate"
)

// Handler bodies for the registered operations. Every error returned
// from here crosses the gateway's classifier, so messages stay inside
// the classifiable vocabulary.

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func argBool(args map[string]any, key string, def bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return def
}

// argRows converts a JSON-decoded 2D array into [][]any.
func argRows(v any) ([][]any, error) {
	rows, ok := v.([][]any)
	if ok {
		return rows, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid data: expected a 2D array of values")
	}
	out := make([][]any, len(raw))
	for i, r := range raw {
		row, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid data: row %d is not an array", i)
		}
		out[i] = row
	}
	return out, nil
}

// qualifiedRange joins sheet and optional A1 range the way the
// backend's values API addresses them.
func qualifiedRange(sheet, rng string) string {
	if rng == "" {
		return sheet
	}
	return sheet + "!" + rng
}

func listSpreadsheets(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	files, err := sess.Directory.ListSpreadsheets(ctx, sess.ScopeID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"spreadsheets": files}, nil
}

func createSpreadsheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	title := argString(args, "title")
	id, err := sess.Documents.CreateSpreadsheet(ctx, title)
	if err != nil {
		return nil, err
	}
	return map[string]any{"spreadsheet_id": id, "title": title}, nil
}

func getSheetData(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	rng := qualifiedRange(argString(args, "sheet"), argString(args, "range"))
	values, err := sess.Documents.GetValues(ctx, argString(args, "spreadsheet_id"), rng, "")
	if err != nil {
		return nil, err
	}
	return map[string]any{"range": rng, "values": values}, nil
}

func getSheetFormulas(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	rng := qualifiedRange(argString(args, "sheet"), argString(args, "range"))
	values, err := sess.Documents.GetValues(ctx, argString(args, "spreadsheet_id"), rng, "FORMULA")
	if err != nil {
		return nil, err
	}
	return map[string]any{"range": rng, "formulas": values}, nil
}

func updateCells(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	data, err := argRows(args["data"])
	if err != nil {
		return nil, err
	}
	rng := qualifiedRange(argString(args, "sheet"), argString(args, "range"))
	updated, err := sess.Documents.UpdateValues(ctx, argString(args, "spreadsheet_id"), rng, data)
	if err != nil {
		return nil, err
	}
	return map[string]any{"range": rng, "updated_cells": updated}, nil
}

func batchUpdateCells(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	raw, ok := args["ranges"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid ranges: expected a mapping of range to values")
	}
	sheet := argString(args, "sheet")
	ranges := make(map[string][][]any, len(raw))
	for rng, v := range raw {
		if !validate.Range(rng) {
			return nil, fmt.Errorf("invalid range: %s", rng)
		}
		rows, err := argRows(v)
		if err != nil {
			return nil, err
		}
		ranges[qualifiedRange(sheet, rng)] = rows
	}
	updated, err := sess.Documents.BatchUpdateValues(ctx, argString(args, "spreadsheet_id"), ranges)
	if err != nil {
		return nil, err
	}
	return map[string]any{"updated_cells": updated, "ranges": len(ranges)}, nil
}

func addRows(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	return insertDimension(ctx, sess, args, "ROWS", "start_row")
}

func addColumns(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	return insertDimension(ctx, sess, args, "COLUMNS", "start_column")
}

func insertDimension(ctx context.Context, sess *session.Session, args map[string]any, dimension, startKey string) (any, error) {
	count := argInt(args, "count", 0)
	if count <= 0 {
		return nil, fmt.Errorf("invalid count: must be positive")
	}
	start := argInt(args, startKey, 0)
	if start < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", startKey)
	}
	err := sess.Documents.InsertDimension(ctx,
		argString(args, "spreadsheet_id"), argString(args, "sheet"), dimension, count, start)
	if err != nil {
		return nil, err
	}
	return map[string]any{"inserted": count, "dimension": dimension, "start": start}, nil
}

func listSheets(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	titles, err := sess.Documents.ListSheets(ctx, argString(args, "spreadsheet_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"sheets": titles}, nil
}

func createSheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	title := argString(args, "title")
	if err := sess.Documents.AddSheet(ctx, argString(args, "spreadsheet_id"), title); err != nil {
		return nil, err
	}
	return map[string]any{"created": title}, nil
}

func renameSheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	err := sess.Documents.RenameSheet(ctx,
		argString(args, "spreadsheet"), argString(args, "sheet"), argString(args, "new_name"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"renamed": argString(args, "new_name")}, nil
}

func copySheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	err := sess.Documents.CopySheet(ctx,
		argString(args, "src_spreadsheet"), argString(args, "src_sheet"),
		argString(args, "dst_spreadsheet"), argString(args, "dst_sheet"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"copied": argString(args, "dst_sheet")}, nil
}

func shareSpreadsheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	raw, ok := args["recipients"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("invalid recipients: expected a non-empty list")
	}
	notify := argBool(args, "send_notification", true)
	id := argString(args, "spreadsheet_id")

	// Per-recipient outcome lists; one bad recipient does not abort
	// the rest.
	var shared, failed []map[string]any
	for _, r := range raw {
		entry, _ := r.(map[string]any)
		email := argString(entry, "email_address")
		role := argString(entry, "role")
		if role == "" {
			role = "writer"
		}
		if !validate.Email(email) {
			failed = append(failed, map[string]any{"email": email, "error": "invalid email address"})
			continue
		}
		if role != "reader" && role != "commenter" && role != "writer" {
			failed = append(failed, map[string]any{"email": email, "error": "invalid role: " + role})
			continue
		}
		if err := sess.Directory.Share(ctx, id, email, role, notify); err != nil {
			failed = append(failed, map[string]any{"email": email, "error": err.Error()})
			continue
		}
		shared = append(shared, map[string]any{"email": email, "role": role})
	}
	return map[string]any{"shared": shared, "failed": failed}, nil
}

func searchSpreadsheets(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	files, err := sess.Directory.Search(ctx, argString(args, "query"), sess.ScopeID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"results": files}, nil
}

func fetchSpreadsheet(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	id := argString(args, "spreadsheet_id")

	title, err := sess.Documents.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := sess.Documents.ListSheets(ctx, id)
	if err != nil {
		return nil, err
	}

	sheetsOut := make([]map[string]any, 0, len(names))
	for _, name := range names {
		values, err := sess.Documents.GetValues(ctx, id, name, "")
		if err != nil {
			// Keep the dump partial rather than failing the whole
			// fetch over one unreadable tab.
			values = nil
		}
		sheetsOut = append(sheetsOut, map[string]any{"name": name, "values": values})
	}

	return map[string]any{
		"id":           id,
		"title":        title,
		"sheets":       sheetsOut,
		"total_sheets": len(sheetsOut),
	}, nil
}

func getMultipleSheetData(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	raw, ok := args["queries"].([]any)
	if !ok {
		return nil, fmt.Errorf("invalid queries: expected a list")
	}

	results := make([]map[string]any, 0, len(raw))
	for _, q := range raw {
		query, _ := q.(map[string]any)
		id := argString(query, "spreadsheet_id")
		sheet := argString(query, "sheet")
		rng := argString(query, "range")

		item := map[string]any{"spreadsheet_id": id, "sheet": sheet, "range": rng}
		switch {
		case !validate.SpreadsheetID(id):
			item["error"] = "invalid spreadsheet_id"
		case !validate.SheetName(sheet):
			item["error"] = "invalid sheet"
		case rng != "" && !validate.Range(rng):
			item["error"] = "invalid range"
		default:
			values, err := sess.Documents.GetValues(ctx, id, qualifiedRange(sheet, rng), "")
			if err != nil {
				item["error"] = err.Error()
			} else {
				item["values"] = values
			}
		}
		results = append(results, item)
	}
	return map[string]any{"results": results}, nil
}

func getMultipleSpreadsheetSummary(ctx context.Context, sess *session.Session, args map[string]any) (any, error) {
	raw, ok := args["spreadsheet_ids"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("invalid spreadsheet_ids: expected a non-empty list")
	}
	rows := argInt(args, "rows_to_fetch", 5)
	if rows < 1 {
		rows = 1
	}

	summaries := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		id, _ := r.(string)
		summary := map[string]any{"spreadsheet_id": id}
		if !validate.SpreadsheetID(id) {
			summary["error"] = "invalid spreadsheet_id"
			summaries = append(summaries, summary)
			continue
		}

		title, err := sess.Documents.GetTitle(ctx, id)
		if err != nil {
			summary["error"] = err.Error()
			summaries = append(summaries, summary)
			continue
		}
		names, err := sess.Documents.ListSheets(ctx, id)
		if err != nil {
			summary["error"] = err.Error()
			summaries = append(summaries, summary)
			continue
		}

		sheetSummaries := make([]map[string]any, 0, len(names))
		for _, name := range names {
			rng := fmt.Sprintf("%s!A1:Z%d", name, rows)
			values, err := sess.Documents.GetValues(ctx, id, rng, "")
			s := map[string]any{"name": name}
			if err != nil {
				s["error"] = err.Error()
			} else if len(values) > 0 {
				s["headers"] = values[0]
				if len(values) > 1 {
					s["first_rows"] = values[1:]
				}
			}
			sheetSummaries = append(sheetSummaries, s)
		}

		summary["title"] = title
		summary["sheets"] = sheetSummaries
		summaries = append(summaries, summary)
	}
	return map[string]any{"summaries": summaries}, nil
}
