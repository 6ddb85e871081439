// Package lang models the user language list: an ordered collection of
// locales, each carrying an ordered sub-list of input-method tips.
// The underlying store only supports whole-list replacement, so every
// mutation here is pure list surgery; committing the result is one
// list-replace write performed by the provider.
package lang

import "strings"

// Locale is one entry of the user language list.
type Locale struct {
	Tag  string
	Tips []string
}

// Tags returns the ordered locale tags of the list.
func Tags(list []Locale) []string {
	tags := make([]string, 0, len(list))
	for _, l := range list {
		tags = append(tags, l.Tag)
	}
	return tags
}

// Find returns the index of the locale with the given tag, or -1.
func Find(list []Locale, tag string) int {
	for i, l := range list {
		if strings.EqualFold(l.Tag, tag) {
			return i
		}
	}
	return -1
}

// EnsureLocalesPresent returns a copy of current with every desired tag
// present. Tags already in the list are left untouched and keep their
// position; missing tags are appended in the order given by desired.
// The second return lists the tags that were appended.
func EnsureLocalesPresent(desired []string, current []Locale) ([]Locale, []string) {
	updated := make([]Locale, len(current))
	copy(updated, current)

	var added []string
	for _, tag := range desired {
		if Find(updated, tag) >= 0 {
			continue
		}
		updated = append(updated, Locale{Tag: tag})
		added = append(added, tag)
	}
	return updated, added
}

// EnsureInputMethodPresent appends tip to the tip sub-list of the
// locale with the given tag, unless a tip sharing the prefix of tip up
// to and including the layout separator already exists. Regional
// variants share that prefix, so presence is a prefix check, not
// full-string equality. Returns the updated list and whether the tip
// was appended. A missing locale is left untouched.
func EnsureInputMethodPresent(tag, tip string, list []Locale) ([]Locale, bool) {
	i := Find(list, tag)
	if i < 0 {
		return list, false
	}

	prefix := TipPrefix(tip)
	for _, existing := range list[i].Tips {
		if strings.HasPrefix(existing, prefix) {
			return list, false
		}
	}

	updated := make([]Locale, len(list))
	copy(updated, list)
	tips := make([]string, len(list[i].Tips), len(list[i].Tips)+1)
	copy(tips, list[i].Tips)
	updated[i].Tips = append(tips, tip)
	return updated, true
}

// TipPrefix is the language part of an input-method tip identifier,
// e.g. "0419:" for "0419:00000419".
func TipPrefix(tip string) string {
	if i := strings.Index(tip, ":"); i >= 0 {
		return tip[:i+1]
	}
	return tip
}
