package docs

// DocumentMimeType is the Drive MIME type of a native Google Doc.
const DocumentMimeType = "application/vnd.google-apps.document"

// DocumentInfo holds the metadata of a document.
type DocumentInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Revision string `json:"revision,omitempty"`
}

// Document combines document metadata with its extracted plain text.
type Document struct {
	DocumentInfo
	Text string `json:"text,omitempty"`
}

// ReplaceResult reports how many occurrences a text replacement changed.
type ReplaceResult struct {
	Occurrences int64 `json:"occurrences"`
}
