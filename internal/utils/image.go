package utils

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ShowImageDir is the directory (relative to the working directory)
// where uploaded show artwork is stored.
const ShowImageDir = "uploads/astronomy_shows"

// ShowImagePath builds a collision-free relative path for uploaded
// show artwork.  The filename combines a slug of the show title with
// a random hex suffix and keeps the original extension, e.g.
// uploads/astronomy_shows/edge-of-the-universe-3f9a...b2.jpg
func ShowImagePath(title, originalFilename string) (string, error) {
	suffix, err := randomHex(16)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return filepath.Join(ShowImageDir, Slugify(title)+"-"+suffix+ext), nil
}

// Slugify lowers a string and replaces every run of non-alphanumeric
// characters with a single dash.  Leading and trailing dashes are
// trimmed; an empty result falls back to "show".
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "show"
	}
	return out
}
