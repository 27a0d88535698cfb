package drive

import "testing"

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		wantID string
		wantOK bool
	}{
		{
			name:   "file URL",
			ref:    "https://drive.google.com/file/d/1aBcDeFgHiJ/view",
			wantID: "1aBcDeFgHiJ",
			wantOK: true,
		},
		{
			name:   "docs URL",
			ref:    "https://docs.google.com/document/d/1XyZ_-abc123/edit",
			wantID: "1XyZ_-abc123",
			wantOK: true,
		},
		{
			name:   "sheets URL with fragment",
			ref:    "https://docs.google.com/spreadsheets/d/1Sheet_ID99/edit#gid=0",
			wantID: "1Sheet_ID99",
			wantOK: true,
		},
		{
			name:   "folder URL",
			ref:    "https://drive.google.com/drive/folders/0Folder123",
			wantID: "0Folder123",
			wantOK: true,
		},
		{
			name:   "open?id form",
			ref:    "https://drive.google.com/open?id=1OpenID42",
			wantID: "1OpenID42",
			wantOK: true,
		},
		{
			name:   "not a URL",
			ref:    "Quarterly Report",
			wantOK: false,
		},
		{
			name:   "URL without ID",
			ref:    "https://drive.google.com/drive/my-drive",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractID(tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("ExtractID(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("ExtractID(%q) = %q, want %q", tt.ref, id, tt.wantID)
			}
		})
	}
}

func TestLooksLikeID(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", true},
		{"1aBcDeFgHiJkLmNoPqRsTuVwX", true}, // exactly 25 chars
		{"short-id", false},
		{"Quarterly Report 2023", false}, // spaces
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikeID(tt.ref); got != tt.want {
			t.Errorf("LooksLikeID(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
