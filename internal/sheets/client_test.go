package sheets

import (
	"context"
	"testing"

	sheets "google.golang.org/api/sheets/v4"
)

func TestToSpreadsheetInfo(t *testing.T) {
	s := &sheets.Spreadsheet{
		SpreadsheetId:  "sheet123",
		SpreadsheetUrl: "https://docs.google.com/spreadsheets/d/sheet123/edit",
		Properties: &sheets.SpreadsheetProperties{
			Title:  "Budget",
			Locale: "en_US",
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					Title:   "2023",
					Index:   0,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: 26,
					},
				},
			},
			{
				Properties: &sheets.SheetProperties{
					SheetId: 42,
					Title:   "2024",
					Index:   1,
				},
			},
		},
	}

	info := toSpreadsheetInfo(s)

	if info.ID != "sheet123" {
		t.Errorf("ID = %s, want sheet123", info.ID)
	}
	if info.Title != "Budget" {
		t.Errorf("Title = %s, want Budget", info.Title)
	}
	if len(info.Sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(info.Sheets))
	}
	if info.Sheets[0].RowCount != 1000 || info.Sheets[0].ColCount != 26 {
		t.Errorf("Unexpected grid size: %+v", info.Sheets[0])
	}
	if info.Sheets[1].ID != 42 {
		t.Errorf("Sheet ID = %d, want 42", info.Sheets[1].ID)
	}
}

func TestToSpreadsheetInfoNilProperties(t *testing.T) {
	info := toSpreadsheetInfo(&sheets.Spreadsheet{
		SpreadsheetId: "x",
		Sheets:        []*sheets.Sheet{{}},
	})

	if info.Title != "" {
		t.Errorf("Expected empty title, got %s", info.Title)
	}
	// Sheets without properties are skipped
	if len(info.Sheets) != 0 {
		t.Errorf("Expected 0 sheets, got %d", len(info.Sheets))
	}
}

func TestResolveWithoutResolver(t *testing.T) {
	c := &Client{}
	if _, err := c.Resolve(context.Background(), "Budget"); err == nil {
		t.Error("Expected error when no resolver is configured")
	}
}

type fakeResolver struct {
	gotRef  string
	gotMime string
}

func (r *fakeResolver) ResolveIDWithType(ctx context.Context, ref, mimeType string) (string, error) {
	r.gotRef = ref
	r.gotMime = mimeType
	return "resolved-id", nil
}

func TestResolveDelegatesWithMimeType(t *testing.T) {
	resolver := &fakeResolver{}
	c := &Client{resolver: resolver}

	id, err := c.Resolve(context.Background(), "Budget")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "resolved-id" {
		t.Errorf("id = %s, want resolved-id", id)
	}
	if resolver.gotMime != SpreadsheetMimeType {
		t.Errorf("Resolver must be constrained to spreadsheets, got %s", resolver.gotMime)
	}
	if resolver.gotRef != "Budget" {
		t.Errorf("ref = %s, want Budget", resolver.gotRef)
	}
}
