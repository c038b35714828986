// Package utils holds small helpers shared by the pipeline and its callers.
package utils

import (
	"strings"
	"unicode"
)

// maxTickerLen is the longest input still treated as a ticker symbol.
const maxTickerLen = 5

// LooksLikeTicker reports whether input reads as a ticker symbol rather than
// a company name: uppercase, at most five characters, and free of spaces,
// dots, slashes, and hyphens. This is a syntactic guess, not a lookup, so
// "IBM" passes and "Apple Inc" does not, while a short all-caps name like
// "GE" is indistinguishable from a symbol.
func LooksLikeTicker(input string) bool {
	if input == "" || len([]rune(input)) > maxTickerLen {
		return false
	}
	if strings.ContainsAny(input, " ./-") {
		return false
	}

	cased := false
	for _, r := range input {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// NormalizeSymbol trims whitespace, drops a leading "$" (common in chat and
// social posts), and uppercases the symbol.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	symbol = strings.TrimPrefix(symbol, "$")
	return strings.ToUpper(symbol)
}
