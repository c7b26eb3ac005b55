// Package corpus provides the document and classification types shared by
// every curation stage.
package corpus

import (
	"bufio"
	"strings"
)

// Document is an immutable input text. Stages never mutate a Document;
// each transform produces a new value with the text replaced.
type Document struct {
	// Filename is the source filename, used as the output identity.
	Filename string `json:"filename"`

	// Text is the document content.
	Text string `json:"text"`

	// Size is the raw byte size as read from storage.
	Size int64 `json:"size"`
}

// WithText returns a copy of the document carrying new text.
// Size always reflects the original raw input, not the transformed text.
func (d Document) WithText(text string) Document {
	d.Text = text
	return d
}

// Metadata holds the optional header fields recoverable from a document's
// leading block. Absent fields are empty strings; an absent header is valid.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
	TextType string `json:"text_type,omitempty"`
}

// IsZero reports whether no header field was present.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// metadataScanLimit bounds the header scan; headers sit in the first few
// lines, terminated by a dash separator.
const metadataScanLimit = 12

// ParseMetadata extracts header fields from the leading block of a document.
// The block is a run of "Field: value" lines terminated by a separator line
// of repeated dashes. Documents without a header yield a zero Metadata.
func ParseMetadata(text string) Metadata {
	var meta Metadata
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := 0; scanner.Scan() && i <= metadataScanLimit; i++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Title:"):
			meta.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "Source:"):
			meta.Source = strings.TrimSpace(strings.TrimPrefix(line, "Source:"))
		case strings.HasPrefix(line, "Category:"):
			meta.Category = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		case strings.HasPrefix(line, "Text Type:"):
			meta.TextType = strings.TrimSpace(strings.TrimPrefix(line, "Text Type:"))
		case strings.HasPrefix(line, "--"):
			return meta
		}
	}
	return meta
}

// HeaderEnd returns the index of the first content line, skipping a metadata
// header terminated by a dash separator. Lines are as produced by
// strings.Split(text, "\n"). Returns 0 when no separator appears in the
// first headerSearchLimit lines, i.e. the document has no header.
func HeaderEnd(lines []string) int {
	const headerSearchLimit = 20
	for i, line := range lines {
		if i > headerSearchLimit {
			break
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") && len(trimmed) > 10 {
			return i + 1
		}
	}
	return 0
}
