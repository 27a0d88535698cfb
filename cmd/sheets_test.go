package cmd

import (
	"testing"
)

func TestParseRows(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr bool
	}{
		{
			name:  "single row",
			input: `[["a", 1]]`,
			rows:  1,
		},
		{
			name:  "mixed types",
			input: `[["a", 1, true], ["b", 2.5, null]]`,
			rows:  2,
		},
		{
			name:  "empty array",
			input: `[]`,
			rows:  0,
		},
		{
			name:    "not an array",
			input:   `{"a": 1}`,
			wantErr: true,
		},
		{
			name:    "flat array",
			input:   `["a", "b"]`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[["a"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := parseRows(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got rows %v", rows)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rows) != tt.rows {
				t.Errorf("expected %d rows, got %d", tt.rows, len(rows))
			}
		})
	}
}
