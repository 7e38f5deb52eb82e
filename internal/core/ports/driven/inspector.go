package driven

// DocMeta is what the inspector reads back from a generated document.
type DocMeta struct {
	// Generator is the front matter generator field, empty when absent.
	Generator string

	// Module is the front matter module field.
	Module string

	// Links are the link destinations found in the Markdown body.
	Links []string
}

// DocInspector parses existing documents.
type DocInspector interface {
	// Inspect parses a document's front matter and Markdown body.
	Inspect(content []byte) (*DocMeta, error)
}
