package biblib

// isDigit reports whether c is an ASCII digit.
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isIDByte reports whether c may appear in a BibTeX identifier:
// printable ASCII (0x20-0x7f) except white space and the characters
// "#%'(),={}. Tab and newline fall outside the printable range.
func isIDByte(c byte) bool {
	if c < 0x20 || c > 0x7f {
		return false
	}
	switch c {
	case ' ', '"', '#', '%', '\'', '(', ')', ',', '=', '{', '}':
		return false
	}
	return true
}
