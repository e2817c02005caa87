package docs

// Chapter is a documentation node. ParentID 0 marks a chapter root; Chapter
// is the ordinal shown in the table of contents.
type Chapter struct {
	ID         int64  `json:"id"`
	ParentID   int64  `json:"parent"`
	Chapter    int64  `json:"chapter"`
	Slug       string `json:"slug"`
	Heading    string `json:"heading"`
	Body       string `json:"body,omitempty"`
	AddedBy    int64  `json:"added_by"`
	AuthorName string `json:"author_name,omitempty"`
}
