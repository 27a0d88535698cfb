package docs

import (
	"strconv"
	"strings"

	docsapi "google.golang.org/api/docs/v1"
)

// PlainText extracts the readable text of a document. Both legacy
// documents (body only) and tabbed documents are supported; tab titles
// are rendered as separators and child tabs are walked recursively.
func PlainText(doc *docsapi.Document) string {
	if doc == nil {
		return ""
	}

	var text strings.Builder

	if len(doc.Tabs) > 0 {
		for i, tab := range doc.Tabs {
			writeTabText(&text, tab, i)
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			writeElementText(&text, element)
		}
	}

	return text.String()
}

func writeTabText(text *strings.Builder, tab *docsapi.Tab, index int) {
	if tab == nil {
		return
	}

	switch {
	case tab.TabProperties != nil && tab.TabProperties.Title != "":
		text.WriteString("=== ")
		text.WriteString(tab.TabProperties.Title)
		text.WriteString(" ===\n\n")
	case index > 0:
		text.WriteString("=== Tab ")
		text.WriteString(strconv.Itoa(index + 1))
		text.WriteString(" ===\n\n")
	}

	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			writeElementText(text, element)
		}
	}

	for i, child := range tab.ChildTabs {
		writeTabText(text, child, i+1)
	}
}

func writeElementText(text *strings.Builder, element *docsapi.StructuralElement) {
	switch {
	case element == nil:
	case element.Paragraph != nil:
		for _, elem := range element.Paragraph.Elements {
			if elem.TextRun != nil {
				text.WriteString(elem.TextRun.Content)
			}
		}
	case element.Table != nil:
		for _, row := range element.Table.TableRows {
			for _, cell := range row.TableCells {
				for _, content := range cell.Content {
					writeElementText(text, content)
				}
			}
		}
	case element.TableOfContents != nil:
		for _, content := range element.TableOfContents.Content {
			writeElementText(text, content)
		}
	}
}

// endIndex returns the insertion index just before the trailing newline
// of a document body, which is where appended text belongs. The Docs API
// rejects insertions at the final newline itself.
func endIndex(doc *docsapi.Document) int64 {
	body := doc.Body
	if len(doc.Tabs) > 0 && doc.Tabs[0].DocumentTab != nil {
		body = doc.Tabs[0].DocumentTab.Body
	}
	if body == nil || len(body.Content) == 0 {
		return 1
	}
	last := body.Content[len(body.Content)-1]
	if last.EndIndex <= 1 {
		return 1
	}
	return last.EndIndex - 1
}
