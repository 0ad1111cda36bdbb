package lexdoc

// Extractor turns a fetched document page into a Document.
type Extractor interface {
	// Extract parses page and returns the document metadata and content.
	// Returns EMALFORMED when the page does not have the expected structure.
	// The returned document has no fingerprint or listing fields set.
	Extract(page *RawPage) (*Document, error)
}
