package models

// FileEntry is a fully-qualified file path discovered under a root.
// Name and path are the only attributes used for matching.
type FileEntry string

// Path returns the entry as a plain string
func (f FileEntry) Path() string {
	return string(f)
}

// EntriesFromPaths converts plain paths into file entries
func EntriesFromPaths(paths ...string) []FileEntry {
	entries := make([]FileEntry, len(paths))
	for i, p := range paths {
		entries[i] = FileEntry(p)
	}
	return entries
}
