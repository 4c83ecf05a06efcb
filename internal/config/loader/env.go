package loader

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "RIPPLE_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "RIPPLE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables through lookup
// instead of the process environment.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	if lookup != nil {
		l.lookup = lookup
	}
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":       "log.level",
		prefix + "LOG_FILE":        "log.file",
		prefix + "MAX_UNDO":        "editor.max_undo",
		prefix + "COALESCE":        "editor.coalesce",
		prefix + "COALESCE_WINDOW": "editor.coalesce_window",
		prefix + "TAB_WIDTH":       "editor.tab_width",
		prefix + "READ_ONLY":       "editor.read_only",
		prefix + "WATCH":           "watch.enabled",
		prefix + "WATCH_DEBOUNCE":  "watch.debounce",
		prefix + "INIT":            "script.init",
	}
}

// Load reads the mapped environment variables and returns a nested
// configuration map. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}

	return config, nil
}

// Variables returns the mapped variable names in sorted order.
func (l *EnvLoader) Variables() []string {
	names := make([]string, 0, len(l.mapping))
	for name := range l.mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := m

	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[parts[i]] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
