package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// validExtensions is the allow-list applied when no explicit pattern is
// given. Compound suffixes are matched as whole trailing strings, so
// "scan.nii.gz" matches ".nii.gz" before single-suffix logic ever applies.
var validExtensions = []string{
	".nii", ".nii.gz", ".nrrd", ".mha", ".mhd", ".nifti", ".hdr", ".img",
}

// Item is one discovered input volume. Name is the filename with the
// compound ".nii.gz" suffix stripped as a unit, otherwise the last single
// extension stripped.
type Item struct {
	Name       string
	SourcePath string
}

// Options controls enumeration. An empty Pattern selects the extension
// allow-list; Recursive extends either mode below the root's direct entries.
type Options struct {
	Pattern   string
	Recursive bool
}

// Find enumerates matching regular files under root and returns them sorted
// lexicographically by full path with duplicates removed. Zero matches is a
// valid result, not an error; only an unreadable root is reported.
func Find(root string, opts Options) ([]Item, error) {
	var paths []string
	var err error
	if opts.Pattern != "" {
		paths, err = byPattern(root, opts.Pattern, opts.Recursive)
	} else {
		paths, err = byExtension(root, opts.Recursive)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	items := make([]Item, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		items = append(items, Item{Name: StemName(path), SourcePath: path})
	}
	return items, nil
}

func byPattern(root, pattern string, recursive bool) ([]string, error) {
	if !recursive {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, err
		}
		return keepRegular(matches), nil
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func byExtension(root string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, entry := range entries {
			if entry.Type().IsRegular() && hasValidExtension(entry.Name()) {
				out = append(out, filepath.Join(root, entry.Name()))
			}
		}
		return out, nil
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !hasValidExtension(d.Name()) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func hasValidExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range validExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func keepRegular(paths []string) []string {
	out := paths[:0]
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, path)
	}
	return out
}

// StemName strips the ".nii.gz" compound suffix as a single unit; any other
// name loses only its final extension.
func StemName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".nii.gz") {
		return strings.TrimSuffix(base, ".nii.gz")
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
