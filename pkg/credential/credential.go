// Package credential resolves the Google Maps API key. The key only ever
// lives in memory: it is read once and handed to the clients explicitly.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/manzanit0/mapsmoke/pkg/env"
)

// DefaultKeyPath is where MCP host configurations keep the key.
var DefaultKeyPath = []string{"mcpServers", "google_maps_server", "env", env.KeyAPIKey}

var (
	ErrKeyNotFound = errors.New("credential: key not found")
	ErrNotString   = errors.New("credential: value is not a non-empty string")
	ErrNoSource    = errors.New("credential: no source configured")
)

// FromFile parses the JSON document at path and returns the string found by
// walking keyPath. It never falls back to a default value.
func FromFile(path string, keyPath ...string) (string, error) {
	if len(keyPath) == 0 {
		keyPath = DefaultKeyPath
	}

	path, err := expandHome(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse credential file %s: %w", path, err)
	}

	return lookup(doc, keyPath)
}

func lookup(doc any, keyPath []string) (string, error) {
	node := doc
	for i, k := range keyPath {
		obj, ok := node.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: %s is not an object", ErrKeyNotFound, strings.Join(keyPath[:i], "."))
		}

		if node, ok = obj[k]; !ok {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(keyPath[:i+1], "."))
		}
	}

	s, ok := node.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrNotString, strings.Join(keyPath, "."))
	}

	return s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}

	return filepath.Join(home, path[2:]), nil
}

// ParseKeyPath splits a dotted path such as "a.b.c".
func ParseKeyPath(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ".")
}

// Source lists where Resolve may look for the key.
type Source struct {
	// DotEnv files are loaded into the environment first. Missing files are
	// ignored.
	DotEnv []string

	// ConfigFile is a JSON document holding the key at KeyPath. When empty,
	// MAPSMOKE_CONFIG is used.
	ConfigFile string
	KeyPath    []string
}

// Resolve returns the key from the environment or, failing that, from the
// configured JSON file.
func Resolve(src Source) (string, error) {
	for _, f := range src.DotEnv {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return "", fmt.Errorf("load %s: %w", f, err)
		}
	}

	if key := env.GoogleMapsAPIKey(); key != "" {
		return key, nil
	}

	path := src.ConfigFile
	if path == "" {
		path = env.ConfigFile()
	}

	if path == "" {
		return "", fmt.Errorf("%w: missing %s environment variable and no config file given. Please check your environment.", ErrNoSource, env.KeyAPIKey)
	}

	return FromFile(path, src.KeyPath...)
}
