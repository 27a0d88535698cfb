package sheets

import (
	sheets "google.golang.org/api/sheets/v4"
)

// SpreadsheetMimeType is the Drive MIME type for Google Sheets files.
const SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SpreadsheetInfo represents metadata about a spreadsheet.
type SpreadsheetInfo struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	URL    string      `json:"url,omitempty"`
	Locale string      `json:"locale,omitempty"`
	Sheets []SheetInfo `json:"sheets,omitempty"`
}

// SheetInfo represents one sheet (tab) within a spreadsheet.
type SheetInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Index    int64  `json:"index"`
	RowCount int64  `json:"rowCount"`
	ColCount int64  `json:"colCount"`
}

// ValueRange holds values read from or written to a range in A1 notation.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// UpdateResult describes the outcome of a value write.
type UpdateResult struct {
	UpdatedRange   string `json:"updatedRange,omitempty"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

// toSpreadsheetInfo converts a Sheets API Spreadsheet to SpreadsheetInfo.
func toSpreadsheetInfo(s *sheets.Spreadsheet) *SpreadsheetInfo {
	info := &SpreadsheetInfo{
		ID:  s.SpreadsheetId,
		URL: s.SpreadsheetUrl,
	}
	if s.Properties != nil {
		info.Title = s.Properties.Title
		info.Locale = s.Properties.Locale
	}
	for _, sh := range s.Sheets {
		if sh.Properties == nil {
			continue
		}
		si := SheetInfo{
			ID:    sh.Properties.SheetId,
			Title: sh.Properties.Title,
			Index: sh.Properties.Index,
		}
		if grid := sh.Properties.GridProperties; grid != nil {
			si.RowCount = grid.RowCount
			si.ColCount = grid.ColumnCount
		}
		info.Sheets = append(info.Sheets, si)
	}
	return info
}
