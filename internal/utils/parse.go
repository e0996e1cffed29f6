package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes the config file at path into v.
// A failure is logged as a warning since config.LoadConfig recovers from it.
func LoadTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warn("config does not decode, recovering valid sections", "path", path, "err", err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery decodes path into a loose table. config.LoadConfig
// uses it after a typed decode failed, e.g. on a key binding written as a
// string instead of a list.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table := make(map[string]any)
	if _, err := toml.Decode(string(data), &table); err != nil {
		log.Warn("config is not valid TOML, using defaults", "path", path, "err", err)
		return nil, err
	}
	return table, nil
}

// ExtractSection returns a table such as [engine] or [keys].
func ExtractSection(table map[string]any, name string) (map[string]any, bool) {
	return ExtractValue[map[string]any](table, name)
}

// ExtractValue returns table[key] when it holds a T. Recovered sections
// are read key by key so one bad value only loses that key.
func ExtractValue[T any](table map[string]any, key string) (T, bool) {
	v, ok := table[key].(T)
	return v, ok
}

// ExtractInt64 reads an integer such as min_prefix or max_limit. TOML
// integers decode as int64.
func ExtractInt64(table map[string]any, key string) (int, bool) {
	v, ok := ExtractValue[int64](table, key)
	return int(v), ok
}

// ExtractStringSlice reads a key binding list. Non-string elements are
// skipped.
func ExtractStringSlice(table map[string]any, key string) ([]string, bool) {
	raw, ok := ExtractValue[[]any](table, key)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys, true
}
