package models

import (
	"sort"
	"strings"
)

// ConflictRecord is one pair of same-named files, one from each root
type ConflictRecord struct {
	// Name is the base name as it appears on side one
	Name string `json:"name"`

	// Folder1 is the containing folder on side one, with a trailing "/"
	Folder1 string `json:"folder1"`

	// Folder2 is the containing folder on side two, with a trailing "/"
	Folder2 string `json:"folder2"`
}

// ConflictSet is an unordered collection of conflict records.
// Consumers must not rely on enumeration order unless Sort was called.
type ConflictSet []ConflictRecord

// Len returns the number of records
func (s ConflictSet) Len() int {
	return len(s)
}

// Sort orders records by case-folded name, then name, folder1, folder2
func (s ConflictSet) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].less(s[j])
	})
}

// Names returns the distinct case-folded names, sorted
func (s ConflictSet) Names() []string {
	seen := make(map[string]struct{}, len(s))
	names := make([]string, 0)
	for _, r := range s {
		key := strings.ToLower(r.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

func (r ConflictRecord) less(o ConflictRecord) bool {
	li, lj := strings.ToLower(r.Name), strings.ToLower(o.Name)
	if li != lj {
		return li < lj
	}
	if r.Name != o.Name {
		return r.Name < o.Name
	}
	if r.Folder1 != o.Folder1 {
		return r.Folder1 < o.Folder1
	}
	return r.Folder2 < o.Folder2
}
