package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"

// Quotes text as a JSON string literal. Every control character is escaped
// so the result always fits on one line.
func QuoteForJSON(text string) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, '"')

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])

		// Fast path: a run of characters that don't need escaping
		if canPrintWithoutEscape(c, width) {
			start := i
			i += width
			for i < len(text) {
				c, width = utf8.DecodeRuneInString(text[i:])
				if !canPrintWithoutEscape(c, width) {
					break
				}
				i += width
			}
			bytes = append(bytes, text[start:i]...)
			continue
		}

		i += width
		switch c {
		case '\b':
			bytes = append(bytes, "\\b"...)
		case '\f':
			bytes = append(bytes, "\\f"...)
		case '\n':
			bytes = append(bytes, "\\n"...)
		case '\r':
			bytes = append(bytes, "\\r"...)
		case '\t':
			bytes = append(bytes, "\\t"...)
		case '\\':
			bytes = append(bytes, "\\\\"...)
		case '"':
			bytes = append(bytes, "\\\""...)
		default:
			// Invalid UTF-8 is escaped one byte at a time
			if c == utf8.RuneError && width == 1 {
				c = rune(text[i-1])
			}
			bytes = append(bytes, '\\', 'u', hexChars[c>>12&15], hexChars[c>>8&15], hexChars[c>>4&15], hexChars[c&15])
		}
	}

	return append(bytes, '"')
}

func canPrintWithoutEscape(c rune, width int) bool {
	if c < 0x20 || c == '\\' || c == '"' {
		return false
	}
	if c == utf8.RuneError && width == 1 {
		return false
	}

	// These are line terminators in JavaScript
	return c != '\u2028' && c != '\u2029'
}
