package export

import (
	"fmt"
	"math"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// OutputExt is the container every clip is written as.
	OutputExt = ".mp4"
	// Placeholder replaces characters that cannot appear in a
	// file name on common filesystems.
	Placeholder = '_'

	clipInfix = "_clip_"
	illegal   = `<>:"/\|?*`
)

// Sanitize replaces every character that is illegal in a file name
// on Windows, macOS, or Linux with Placeholder. Applying it twice is
// the same as applying it once.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(illegal, r) {
			return Placeholder
		}
		return r
	}, name)
}

// wholeSeconds truncates a mark to non-negative whole seconds.
func wholeSeconds(v float64) int64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int64(math.Floor(v))
}

// OutputName is the clip's file name, without a directory.
func OutputName(source string, start, end float64, profileID string) string {
	base := sourceBase(source)
	return Sanitize(fmt.Sprintf("%s%s%d-%d_%s%s", base, clipInfix, wholeSeconds(start), wholeSeconds(end), profileID, OutputExt))
}

// OutputPath places OutputName next to the source. Sources that are
// URLs rather than files go into the working directory.
func OutputPath(source string, start, end float64, profileID string) string {
	name := OutputName(source, start, end, profileID)
	if isURL(source) {
		return name
	}
	return filepath.Join(filepath.Dir(source), name)
}

func sourceBase(source string) string {
	if isURL(source) {
		u, err := url.Parse(source)
		if err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			b := path.Base(u.Path)
			return strings.TrimSuffix(b, path.Ext(b))
		}
		return "stream"
	}
	b := filepath.Base(source)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

func isURL(source string) bool {
	scheme, _, ok := strings.Cut(source, "://")
	if !ok || scheme == "" {
		return false
	}
	for _, r := range scheme {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
