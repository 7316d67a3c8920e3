package manifest

import "path"

// FileIndex maps packages to the files they own and file basenames back
// to their owners. It is rebuilt from the manifests on every use and never
// cached, so lookups always reflect the installed tree.
type FileIndex struct {
	ByPackage  map[string][]string // package -> owned files
	ByFilename map[string][]string // basename -> owning packages, scan order
}

// BuildIndex indexes the given manifests. When two packages own a file
// with the same basename both are recorded; no disambiguation is done.
func BuildIndex(ms []*Manifest) *FileIndex {
	idx := &FileIndex{
		ByPackage:  make(map[string][]string, len(ms)),
		ByFilename: make(map[string][]string),
	}
	for _, m := range ms {
		idx.ByPackage[m.Package] = m.Files
		for _, fn := range m.Files {
			key := path.Base(fn)
			owners := idx.ByFilename[key]
			if n := len(owners); n > 0 && owners[n-1] == m.Package {
				continue
			}
			idx.ByFilename[key] = append(owners, m.Package)
		}
	}
	return idx
}

// Owners returns the candidate packages owning basename, or nil.
func (idx *FileIndex) Owners(basename string) []string {
	return idx.ByFilename[basename]
}

// Files returns the files owned by pkg, or nil.
func (idx *FileIndex) Files(pkg string) []string {
	return idx.ByPackage[pkg]
}
