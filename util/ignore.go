package util

import "regexp"

// IgnorePattern pairs a compiled regular expression with its original
// source string. The source string is what gets serialised verbatim into
// dependencies.json's "exclude" list so an external watcher can recompile
// the same pattern; keep the pairing explicit rather than recompiling from
// the string at read time.
type IgnorePattern struct {
	Source string
	re     *regexp.Regexp
}

// MustIgnorePattern compiles source into an IgnorePattern, panicking on a
// malformed literal (all entries below are static, known-good literals).
func MustIgnorePattern(source string) IgnorePattern {
	return IgnorePattern{Source: source, re: regexp.MustCompile(source)}
}

// Match reports whether basename matches this pattern.
func (p IgnorePattern) Match(basename string) bool {
	return p.re.MatchString(basename)
}

// IgnoreList is an ordered set of ignore patterns, applied to basenames
// during copies and source-tree scans.
type IgnoreList []IgnorePattern

// Matches reports whether basename matches any pattern in the list.
func (l IgnoreList) Matches(basename string) bool {
	for _, p := range l {
		if p.Match(basename) {
			return true
		}
	}
	return false
}

// Sources returns the original regexp source strings, in order, for
// serialisation into dependencies.json's "exclude" field.
func (l IgnoreList) Sources() []string {
	out := make([]string, len(l))
	for i, p := range l {
		out[i] = p.Source
	}
	return out
}

// DefaultIgnoreList returns the bundler's standard ignore patterns, per
// spec.md §6: editor swap/backup files, OS metadata files, and VCS/package
// manager directories that must never be copied or scanned into a bundle.
func DefaultIgnoreList() IgnoreList {
	return IgnoreList{
		MustIgnorePattern(`~$`),
		MustIgnorePattern(`^\.#`),
		MustIgnorePattern(`^#.*#$`),
		MustIgnorePattern(`^\.DS_Store$`),
		MustIgnorePattern(`^ehthumbs\.db$`),
		MustIgnorePattern("^Icon\r$"),
		MustIgnorePattern(`^Thumbs\.db$`),
		MustIgnorePattern(`^\.meteor$`),
		MustIgnorePattern(`^\.git$`),
	}
}
