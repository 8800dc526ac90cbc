package sheets

import (
	"github.com/sheetgate/sheetgate/internal/registry"
	"github.com/sheetgate/sheetgate/internal/validate"
)

// Register adds every spreadsheet operation to the registry. Called
// once at startup, before the gateway accepts traffic.
func Register(r *registry.Registry) error {
	descriptors := []*registry.Descriptor{
		{
			Name:        "list_spreadsheets",
			Description: "List all spreadsheets in the configured folder",
			Params:      map[string]validate.Spec{},
			Handler:     listSpreadsheets,
		},
		{
			Name:        "create_spreadsheet",
			Description: "Create a new spreadsheet",
			Params: map[string]validate.Spec{
				"title": {Required: true, Kind: validate.KindSheetName},
			},
			Handler: createSpreadsheet,
		},
		{
			Name:        "get_sheet_data",
			Description: "Read values from a sheet, optionally limited to an A1 range",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"range":          {Kind: validate.KindRange},
			},
			Handler: getSheetData,
		},
		{
			Name:        "get_sheet_formulas",
			Description: "Read formulas from a sheet, optionally limited to an A1 range",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"range":          {Kind: validate.KindRange},
			},
			Handler: getSheetFormulas,
		},
		{
			Name:        "update_cells",
			Description: "Write a 2D block of values to an A1 range",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"range":          {Required: true, Kind: validate.KindRange},
				"data":           {Required: true, Kind: validate.KindAny},
			},
			Handler: updateCells,
		},
		{
			Name:        "batch_update_cells",
			Description: "Write several A1 ranges in one call",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"ranges":         {Required: true, Kind: validate.KindAny},
			},
			Handler: batchUpdateCells,
		},
		{
			Name:        "add_rows",
			Description: "Insert rows into a sheet",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"count":          {Required: true, Kind: validate.KindInt},
				"start_row":      {Kind: validate.KindInt},
			},
			Handler: addRows,
		},
		{
			Name:        "add_columns",
			Description: "Insert columns into a sheet",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":          {Required: true, Kind: validate.KindSheetName},
				"count":          {Required: true, Kind: validate.KindInt},
				"start_column":   {Kind: validate.KindInt},
			},
			Handler: addColumns,
		},
		{
			Name:        "list_sheets",
			Description: "List the sheet tabs of a spreadsheet",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
			},
			Handler: listSheets,
		},
		{
			Name:        "create_sheet",
			Description: "Add a new sheet tab to a spreadsheet",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
				"title":          {Required: true, Kind: validate.KindSheetName},
			},
			Handler: createSheet,
		},
		{
			Name:        "rename_sheet",
			Description: "Rename a sheet tab",
			Params: map[string]validate.Spec{
				"spreadsheet": {Required: true, Kind: validate.KindSpreadsheetID},
				"sheet":       {Required: true, Kind: validate.KindSheetName},
				"new_name":    {Required: true, Kind: validate.KindSheetName},
			},
			Handler: renameSheet,
		},
		{
			Name:        "copy_sheet",
			Description: "Copy a sheet tab into another spreadsheet",
			Params: map[string]validate.Spec{
				"src_spreadsheet": {Required: true, Kind: validate.KindSpreadsheetID},
				"src_sheet":       {Required: true, Kind: validate.KindSheetName},
				"dst_spreadsheet": {Required: true, Kind: validate.KindSpreadsheetID},
				"dst_sheet":       {Required: true, Kind: validate.KindSheetName},
			},
			Handler: copySheet,
		},
		{
			Name:        "share_spreadsheet",
			Description: "Share a spreadsheet with a list of recipients",
			Params: map[string]validate.Spec{
				"spreadsheet_id":    {Required: true, Kind: validate.KindSpreadsheetID},
				"recipients":        {Required: true, Kind: validate.KindAny},
				"send_notification": {Kind: validate.KindAny},
			},
			Handler: shareSpreadsheet,
		},
		{
			Name:        "search_spreadsheets",
			Description: "Search spreadsheets by name or content",
			Params: map[string]validate.Spec{
				"query": {Required: true, Kind: validate.KindString},
			},
			Handler: searchSpreadsheets,
		},
		{
			Name:        "fetch_spreadsheet",
			Description: "Fetch a spreadsheet's full content and metadata",
			Params: map[string]validate.Spec{
				"spreadsheet_id": {Required: true, Kind: validate.KindSpreadsheetID},
			},
			Handler: fetchSpreadsheet,
		},
		{
			Name:        "get_multiple_sheet_data",
			Description: "Read several ranges across spreadsheets in one call",
			Params: map[string]validate.Spec{
				"queries": {Required: true, Kind: validate.KindAny},
			},
			Handler: getMultipleSheetData,
		},
		{
			Name:        "get_multiple_spreadsheet_summary",
			Description: "Summarize several spreadsheets: tabs, headers, first rows",
			Params: map[string]validate.Spec{
				"spreadsheet_ids": {Required: true, Kind: validate.KindAny},
				"rows_to_fetch":   {Kind: validate.KindInt},
			},
			Handler: getMultipleSpreadsheetSummary,
		},
	}

	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
