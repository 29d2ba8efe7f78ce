package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func readLayer[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	var layer T
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return false, err
	}
	err = mergo.Merge(out, layer, mergo.WithOverride)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadConfig reads a json5 configuration file, `name` should come with
// a file extension. A `<name>.local.<ext>` file next to it, if present,
// is merged on top so deployments can override checked-in defaults.
func ReadConfig[T any](name string) (T, error) {
	var out T

	prefixname, ext := splitExt(filepath.Base(name))
	localPath := filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)

	foundDefault, err := readLayer(name, &out)
	if err != nil {
		return out, err
	}
	foundLocal, err := readLayer(localPath, &out)
	if err != nil {
		return out, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localPath)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it searches up the filesystem from
// the cwd until the root for a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Join(current, "..")
			continue
		}
		if err != nil {
			return defaultOut, err
		}
		return config, nil
	}

	return defaultOut, os.ErrNotExist
}
