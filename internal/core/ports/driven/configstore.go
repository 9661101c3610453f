package driven

// ConfigStore holds flat dot-notation settings such as "ingest.max_pages".
// Set persists immediately where the implementation has a backing file.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns "" for a missing or non-string value.
	GetString(key string) string

	// GetInt returns 0 for a missing or non-numeric value. Numeric strings
	// are parsed.
	GetInt(key string) int

	// Set stores a value.
	Set(key string, value any) error

	// Path returns the backing file, or a placeholder when there is none.
	Path() string
}
