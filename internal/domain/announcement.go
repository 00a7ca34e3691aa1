package domain

const (
	// UntitledPlaceholder replaces a missing <title>.
	UntitledPlaceholder = "#Untitled"
	// NoLinkPlaceholder replaces a missing <link>.
	NoLinkPlaceholder = "#NoLink"
)

// Announcement represents a single feed item after parsing.
// Title and Link are always set and Categories is never nil.
// Description and PublicationDate are nil when the element was missing from the source
// document, so an absent field can be told apart from an empty one.
type Announcement struct {
	Title           string   `json:"title"`
	Link            string   `json:"link"`
	Description     *string  `json:"description"`
	PublicationDate *string  `json:"publication_date"`
	Categories      []string `json:"categories"`
}

// HasDescription reports whether the source item carried a <description> element.
func (a Announcement) HasDescription() bool {
	return a.Description != nil
}
