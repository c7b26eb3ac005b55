package normalize

import (
	"strings"
	"unicode"
)

// gender is the outcome of a context window inspection.
type gender int

const (
	genderUnknown gender = iota
	genderMasculine
	genderFeminine
)

// expandStandard applies the unconditional abbreviation rules in table
// order. Compound forms precede their single-letter tails in the table, so
// a single left-to-right sweep per rule is sufficient.
func (n *Normalizer) expandStandard(text string) string {
	for _, rule := range n.rules.Standard {
		text = rule.re.ReplaceAllString(text, rule.Expansion)
	}
	return text
}

// expandPraenomina expands abbreviated Roman praenomina ("M. Tullius" to
// "Marcus Tullius"). A candidate expands only when it is followed by a
// capitalized token, is not a multi-letter Roman numeral, and the
// surrounding gender context permits it. Single-letter forms overlap the
// numeral alphabet (M, L, C, D); for those, the capitalized-follower and
// gender-context checks carry the disambiguation instead of the numeral
// guard.
func (n *Normalizer) expandPraenomina(text string) string {
	for _, rule := range n.rules.Praenomina {
		matches := rule.re.FindAllStringIndex(text, -1)
		if matches == nil {
			continue
		}
		// Replace right to left so earlier indices stay valid.
		for i := len(matches) - 1; i >= 0; i-- {
			start, end := matches[i][0], matches[i][1]
			if !followedByCapital(text, end) {
				continue
			}
			letters := strings.Map(func(r rune) rune {
				if r == '.' || r == '\'' {
					return -1
				}
				return r
			}, text[start:end])
			if len(letters) > 1 && n.lib.IsRomanNumeral(letters) {
				continue
			}
			// "M. XIV" is a numeral sequence, not an abbreviated name.
			if n.lib.IsRomanNumeral(followerWord(text, end)) {
				continue
			}
			ctx := n.contextGender(text, start, end)
			if ctx == genderFeminine {
				continue
			}
			if !rule.Common && ctx != genderMasculine {
				continue
			}
			text = text[:start] + rule.Expansion + text[end:]
		}
	}
	return text
}

// followerWord returns the word immediately after the whitespace at
// position end, stopping at the first non-letter rune.
func followerWord(text string, end int) string {
	rest := text[end:]
	i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return ""
	}
	rest = rest[i:]
	j := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
	if j < 0 {
		return rest
	}
	return rest[:j]
}

// followedByCapital reports whether the text after position end is a single
// whitespace character followed by an uppercase letter, the shape of a name
// continuing after an abbreviated praenomen.
func followedByCapital(text string, end int) bool {
	rest := []rune(text[end:])
	if len(rest) < 2 {
		return false
	}
	return unicode.IsSpace(rest[0]) && unicode.IsUpper(rest[1])
}

// contextGender inspects a window of text on each side of a match and
// counts gendered keywords. Ties and empty windows are indeterminate.
func (n *Normalizer) contextGender(text string, start, end int) gender {
	window := n.rules.GenderContext.Window
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	ctx := strings.ToLower(text[lo:hi])

	masc := countOccurrences(ctx, n.rules.GenderContext.Masculine)
	fem := countOccurrences(ctx, n.rules.GenderContext.Feminine)
	switch {
	case masc > fem:
		return genderMasculine
	case fem > masc:
		return genderFeminine
	default:
		return genderUnknown
	}
}

func countOccurrences(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}
