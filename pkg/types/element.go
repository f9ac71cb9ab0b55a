// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ElementType categorizes a content element returned by the partitioner.
type ElementType string

const (
	ElementTitle             ElementType = "Title"
	ElementNarrativeText     ElementType = "NarrativeText"
	ElementListItem          ElementType = "ListItem"
	ElementTable             ElementType = "Table"
	ElementHeader            ElementType = "Header"
	ElementFooter            ElementType = "Footer"
	ElementFigureCaption     ElementType = "FigureCaption"
	ElementImage             ElementType = "Image"
	ElementPageBreak         ElementType = "PageBreak"
	ElementUncategorizedText ElementType = "UncategorizedText"
)

// ElementMetadata holds the subset of partitioner metadata this tool reads.
type ElementMetadata struct {
	Filename   string   `json:"filename,omitempty" yaml:"filename,omitempty"`
	FileType   string   `json:"filetype,omitempty" yaml:"filetype,omitempty"`
	PageNumber int      `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	Languages  []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// TextAsHTML is set on Table elements when table structure was inferred.
	TextAsHTML string `json:"text_as_html,omitempty" yaml:"text_as_html,omitempty"`
}

// Element is one unit of partitioned content: a title, paragraph, table, etc.
type Element struct {
	Type     ElementType     `json:"type" yaml:"type"`
	ID       string          `json:"element_id" yaml:"element_id"`
	Text     string          `json:"text" yaml:"text"`
	Metadata ElementMetadata `json:"metadata" yaml:"metadata"`
}

// String returns the element's text rendering.
func (e Element) String() string {
	return e.Text
}

// JoinElements concatenates the string rendering of each element, in order,
// separated by sep.
func JoinElements(elements []Element, sep string) string {
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = el.String()
	}
	return strings.Join(parts, sep)
}
