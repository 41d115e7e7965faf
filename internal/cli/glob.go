package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// expandGlob returns the files matching pattern, in lexical order. pattern is a slash-separated glob in which "**" matches any number of directories (ex:
// "docs/**/*.md"). Hidden directories below the pattern's literal prefix are not searched.
func expandGlob(pattern string) ([]string, error) {
	root, rest := splitGlob(pattern)
	gi := gitignore.CompileIgnoreLines("/" + rest)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if gi.MatchesPath(filepath.ToSlash(rel)) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return out, nil
}

// splitGlob splits pattern into the directory made of its leading wildcard-free segments, and the remaining pattern. The last segment always stays in the
// pattern.
func splitGlob(pattern string) (root, rest string) {
	segs := strings.Split(filepath.ToSlash(pattern), "/")
	n := 0
	for n < len(segs)-1 && !strings.ContainsAny(segs[n], `*?[\`) {
		n++
	}
	root = strings.Join(segs[:n], "/")
	switch {
	case root == "" && n > 0:
		root = "/"
	case root == "":
		root = "."
	}
	return filepath.FromSlash(root), strings.Join(segs[n:], "/")
}
