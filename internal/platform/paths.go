package platform

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separators are the characters treated as path separators by the
// name helpers, regardless of the current platform.
const Separators = `\/`

// DisplaySeparator joins folder segments in Folder
const DisplaySeparator = "/"

// BaseName returns the final segment of path after splitting on both
// separator styles. A path ending in a separator has an empty base name.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, Separators); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Folder returns every segment of path except the last, each followed by
// a single "/". It is a display form, not a validated filesystem path:
//
//	Folder(`/x/report.TXT`)  == "/x/"
//	Folder(`C:\data\a.txt`)  == "C:/data/"
//	Folder(`a.txt`)          == ""
func Folder(path string) string {
	i := strings.LastIndexAny(path, Separators)
	if i < 0 {
		return ""
	}
	return strings.ReplaceAll(path[:i], `\`, DisplaySeparator) + DisplaySeparator
}

// FoldName returns the case-insensitive comparison key of a file name:
// each character upper-cased on its own, without locale rules. Non-ASCII
// characters whose upper case is ASCII (the long s, the dotless i) keep
// their own form, so they never collide with plain ASCII names. Bytes
// that are not valid UTF-8 are kept as they are.
func FoldName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteByte(name[i])
			i++
			continue
		}
		sb.WriteRune(foldRune(r))
		i += size
	}
	return sb.String()
}

func foldRune(r rune) rune {
	upper := unicode.ToUpper(r)
	if r >= utf8.RuneSelf && upper < utf8.RuneSelf {
		return r
	}
	return upper
}
