package domain

// ChangeType represents the type of source change seen in watch mode.
type ChangeType int

const (
	// ChangeCreated indicates a new source file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified source file.
	ChangeUpdated

	// ChangeDeleted indicates a removed or renamed source file.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// SourceChange is a change event for one source file.
type SourceChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the absolute path of the changed file.
	Path string
}
