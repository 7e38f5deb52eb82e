package domain

// DocumentationBlock is the structured content of a docstring.
type DocumentationBlock struct {
	// Summary is the text before the first recognised section marker.
	Summary string

	// Arguments in docstring order.
	Arguments []ArgumentDoc

	// Returns is nil when the docstring has no Returns section.
	Returns *ReturnDoc

	// Raises in docstring order.
	Raises []RaiseDoc

	// Examples are input/output pairs in docstring order.
	Examples []ExampleDoc

	// Sections are unrecognised sections, preserved under their own title.
	Sections []SectionDoc

	// Raw is the cleaned docstring text.
	Raw string
}

// ArgumentDoc documents one parameter.
type ArgumentDoc struct {
	Name        string
	Type        string
	Description string
}

// ReturnDoc documents the return value.
type ReturnDoc struct {
	Type        string
	Description string
}

// RaiseDoc documents one raised error.
type RaiseDoc struct {
	Kind      string
	Condition string
}

// ExampleDoc is one example input and its expected output, both verbatim.
// An empty Input marks narrative text that preceded the first input line.
type ExampleDoc struct {
	Input  string
	Output string
}

// SectionDoc is a docstring section with an unrecognised title.
type SectionDoc struct {
	Title string
	Body  string
}

// Argument returns the documentation for the named argument.
func (b *DocumentationBlock) Argument(name string) (ArgumentDoc, bool) {
	if b == nil {
		return ArgumentDoc{}, false
	}
	for _, a := range b.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return ArgumentDoc{}, false
}

// IsEmpty returns true when the block carries no content at all.
func (b *DocumentationBlock) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.Summary == "" &&
		len(b.Arguments) == 0 &&
		b.Returns == nil &&
		len(b.Raises) == 0 &&
		len(b.Examples) == 0 &&
		len(b.Sections) == 0
}
