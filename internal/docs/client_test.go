package docs

import (
	"context"
	"strings"
	"testing"

	docsapi "google.golang.org/api/docs/v1"
)

func paragraph(text string) *docsapi.StructuralElement {
	return &docsapi.StructuralElement{
		Paragraph: &docsapi.Paragraph{
			Elements: []*docsapi.ParagraphElement{
				{TextRun: &docsapi.TextRun{Content: text}},
			},
		},
	}
}

func TestPlainTextLegacyBody(t *testing.T) {
	doc := &docsapi.Document{
		Body: &docsapi.Body{
			Content: []*docsapi.StructuralElement{
				paragraph("Hello world\n"),
				paragraph("Second line\n"),
			},
		},
	}

	text := PlainText(doc)
	if text != "Hello world\nSecond line\n" {
		t.Errorf("PlainText = %q", text)
	}
}

func TestPlainTextTabs(t *testing.T) {
	doc := &docsapi.Document{
		Tabs: []*docsapi.Tab{
			{
				TabProperties: &docsapi.TabProperties{Title: "Notes"},
				DocumentTab: &docsapi.DocumentTab{
					Body: &docsapi.Body{
						Content: []*docsapi.StructuralElement{paragraph("tab content\n")},
					},
				},
				ChildTabs: []*docsapi.Tab{
					{
						TabProperties: &docsapi.TabProperties{Title: "Nested"},
						DocumentTab: &docsapi.DocumentTab{
							Body: &docsapi.Body{
								Content: []*docsapi.StructuralElement{paragraph("nested content\n")},
							},
						},
					},
				},
			},
		},
	}

	text := PlainText(doc)
	for _, want := range []string{"=== Notes ===", "tab content", "=== Nested ===", "nested content"} {
		if !strings.Contains(text, want) {
			t.Errorf("PlainText missing %q in %q", want, text)
		}
	}
}

func TestPlainTextTable(t *testing.T) {
	doc := &docsapi.Document{
		Body: &docsapi.Body{
			Content: []*docsapi.StructuralElement{
				{
					Table: &docsapi.Table{
						TableRows: []*docsapi.TableRow{
							{
								TableCells: []*docsapi.TableCell{
									{Content: []*docsapi.StructuralElement{paragraph("cell\n")}},
								},
							},
						},
					},
				},
			},
		},
	}

	if text := PlainText(doc); !strings.Contains(text, "cell") {
		t.Errorf("Table text not extracted: %q", text)
	}
}

func TestPlainTextNil(t *testing.T) {
	if text := PlainText(nil); text != "" {
		t.Errorf("Expected empty text for nil document, got %q", text)
	}
}

func TestEndIndex(t *testing.T) {
	doc := &docsapi.Document{
		Body: &docsapi.Body{
			Content: []*docsapi.StructuralElement{
				{EndIndex: 1},
				{EndIndex: 42},
			},
		},
	}

	if got := endIndex(doc); got != 41 {
		t.Errorf("endIndex = %d, want 41", got)
	}
}

func TestEndIndexEmptyBody(t *testing.T) {
	if got := endIndex(&docsapi.Document{}); got != 1 {
		t.Errorf("endIndex = %d, want 1", got)
	}
}

func TestEndIndexTabbed(t *testing.T) {
	doc := &docsapi.Document{
		Tabs: []*docsapi.Tab{
			{
				DocumentTab: &docsapi.DocumentTab{
					Body: &docsapi.Body{
						Content: []*docsapi.StructuralElement{{EndIndex: 10}},
					},
				},
			},
		},
	}

	if got := endIndex(doc); got != 9 {
		t.Errorf("endIndex = %d, want 9", got)
	}
}

func TestResolveWithoutResolver(t *testing.T) {
	c := &Client{}
	if _, err := c.Resolve(context.Background(), "Meeting Notes"); err == nil {
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

	id, err := c.Resolve(context.Background(), "Meeting Notes")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "resolved-id" {
		t.Errorf("id = %s, want resolved-id", id)
	}
	if resolver.gotMime != DocumentMimeType {
		t.Errorf("Resolver must be constrained to documents, got %s", resolver.gotMime)
	}
}

func TestInsertTextValidatesIndex(t *testing.T) {
	c := &Client{}
	if _, err := c.InsertText(context.Background(), "doc1", 0, "hi"); err == nil {
		t.Error("Expected error for index < 1")
	}
}
