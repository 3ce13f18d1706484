package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var excludeRE = regexp.MustCompile(`(\.git/|\.hg/|\.svn/)`)

// discoverFiles walks each input path and returns every `.sql`/`.bq` file
// found, excluding anything under a `.git`, `.hg` or `.svn` directory
// (spec §6). Discovery stays single-threaded and returns files in stable,
// sorted-per-directory order: downstream graph-building needs a stable
// insertion order for deterministic tie-breaking (spec §4.2, §5), so this
// diverges from the teacher's --workers parallel-walk pattern on purpose
// (see DESIGN.md).
func discoverFiles(paths []string) ([]string, error) {
	var out []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if isSQLFile(root) {
				out = append(out, root)
			}
			continue
		}
		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if excludeRE.MatchString(filepath.ToSlash(path) + "/") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if isSQLFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

func isSQLFile(path string) bool {
	return strings.HasSuffix(path, ".sql") || strings.HasSuffix(path, ".bq")
}
