package sceneio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadModelList returns the model paths listed one per line, in order.
// Blank lines and '#' comments are skipped.
func ReadModelList(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading model list: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrEmptyModelList
	}
	return paths, nil
}

// LoadModelList reads the model list at path. Relative entries are resolved
// against the list file's directory.
func LoadModelList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model list: %w", err)
	}
	defer f.Close()

	paths, err := ReadModelList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(dir, p)
		}
	}
	return paths, nil
}
