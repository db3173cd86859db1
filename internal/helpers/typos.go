package helpers

import "unicode/utf8"

// Suggests a known word for a misspelling that is one edit away from it: a
// missing character, an extra character, a replaced character, or two
// swapped neighbors. When several words match, the one added last wins.
type TypoDetector struct {
	valid      map[string]bool
	byDeletion map[string]string
}

// Words of three characters or less are never suggested
func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{
		valid:      make(map[string]bool),
		byDeletion: make(map[string]string),
	}

	for _, word := range valid {
		if len(word) > 3 {
			detector.valid[word] = true
			for _, variant := range deletions(word) {
				detector.byDeletion[variant] = word
			}
		}
	}

	return detector
}

func (detector TypoDetector) MaybeCorrectTypo(typo string) (string, bool) {
	if detector.valid[typo] {
		return "", false
	}

	// The typo is missing a character
	if corrected, ok := detector.byDeletion[typo]; ok {
		return corrected, true
	}

	for _, variant := range deletions(typo) {
		// The typo has an extra character
		if detector.valid[variant] {
			return variant, true
		}

		// The typo has a replaced character. Two swapped neighbors also end up
		// here since removing either one of them gives the same variant.
		if corrected, ok := detector.byDeletion[variant]; ok {
			return corrected, true
		}
	}

	return "", false
}

// Every way of removing exactly one character from "word"
func deletions(word string) []string {
	variants := make([]string, 0, len(word))
	for i := 0; i < len(word); {
		_, width := utf8.DecodeRuneInString(word[i:])
		variants = append(variants, word[:i]+word[i+width:])
		i += width
	}
	return variants
}
