package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceRecord is one discovered compilable file. Object is the path the
// compiler writes its artifact to: Rel joined under the object root with
// the source extension replaced by ".o".
type SourceRecord struct {
	Path   string // absolute (or caller-relative) source path
	Rel    string // path relative to the root it was discovered under
	Object string // derived object-artifact path
}

// DiscoverSources walks each root in order and collects files whose
// extension matches one of exts. Roots that do not exist or are not
// directories contribute nothing; callers routinely pass optional extra
// roots. The walk is lexical per directory, so the result is stable for a
// fixed filesystem state.
//
// Every record must own a distinct object path: two sources from different
// roots sharing a root-relative name would otherwise overwrite each other's
// object, so that is an error rather than a silent last-writer-wins.
func DiscoverSources(objRoot string, exts []string, roots ...string) ([]SourceRecord, error) {
	var records []SourceRecord
	objects := make(map[string]string)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !matchesExt(d.Name(), exts) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			object := objectPath(objRoot, rel)
			if prev, ok := objects[object]; ok {
				return fmt.Errorf("sources %s and %s map to the same object artifact %s", prev, path, object)
			}
			objects[object] = path
			records = append(records, SourceRecord{
				Path:   path,
				Rel:    rel,
				Object: object,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func matchesExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// objectPath maps a root-relative source path to its object artifact under
// objRoot, replacing the source extension with ".o".
func objectPath(objRoot, rel string) string {
	ext := filepath.Ext(rel)
	return filepath.Join(objRoot, strings.TrimSuffix(rel, ext)+".o")
}
