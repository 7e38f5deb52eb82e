package driven

// ConfigStore provides access to the docgen.toml project configuration.
// Keys are dot-separated paths into the TOML document ("source.root").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString returns "" if the key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt returns 0 if the key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool returns false if the key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil if the key doesn't exist or isn't a list.
	GetStringSlice(key string) []string

	// Set stores a value in memory. Call Save to persist it.
	Set(key string, value any) error

	// Save writes the configuration file.
	Save() error

	// Load re-reads the configuration file. A missing file is not an error.
	Load() error

	// Exists reports whether the configuration file exists on disk.
	Exists() bool

	// Path returns the configuration file path.
	Path() string
}
