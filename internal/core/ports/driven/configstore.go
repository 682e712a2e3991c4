package driven

// ConfigStore persists user settings as a flat set of dotted keys such as
// "build.articles_dir". Typed getters return the zero value when a key is
// missing or holds a different type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set updates a value in memory; call Save to persist it.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path returns where the settings are stored. Stores without a file
	// return ":memory:".
	Path() string
}
