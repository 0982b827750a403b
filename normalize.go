package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var identReplacer = strings.NewReplacer(" ", "_", "[", "", "]", "", ",", "")

// Normalize turns free text into a token usable as an nft variable name:
// accents stripped, lowercased, spaces to underscores, brackets and commas dropped.
func Normalize(s string) string {
	// lowering can reintroduce marks (U+0130), so strip on both sides of it
	s = stripAccents(strings.ToLower(stripAccents(s)))
	return identReplacer.Replace(s)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
