package util

import (
	"strings"
	"unicode"
)

// titleToken is a run of digits or a run of non-digits from a title.
type titleToken struct {
	text  string
	isNum bool
}

func tokenizeTitle(s string) []titleToken {
	var tokens []titleToken
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	for start := 0; start < len(runes); {
		isNum := unicode.IsDigit(runes[start])
		end := start + 1
		for end < len(runes) && unicode.IsDigit(runes[end]) == isNum {
			end++
		}
		text := string(runes[start:end])
		if isNum {
			// Compare numbers by magnitude: strip leading zeros, then length decides.
			text = strings.TrimLeft(text, "0")
		}
		tokens = append(tokens, titleToken{text: text, isNum: isNum})
		start = end
	}
	return tokens
}

// CompareTitles orders titles naturally and case-insensitively, so
// "Season 2" sorts before "Season 10". Titles that only differ in case or
// leading zeros fall back to a byte comparison to keep the order total.
func CompareTitles(a, b string) int {
	ta, tb := tokenizeTitle(a), tokenizeTitle(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		x, y := ta[i], tb[i]
		switch {
		case x.isNum && !y.isNum:
			return -1
		case !x.isNum && y.isNum:
			return 1
		case x.isNum:
			if len(x.text) != len(y.text) {
				if len(x.text) < len(y.text) {
					return -1
				}
				return 1
			}
		}
		if c := strings.Compare(x.text, y.text); c != 0 {
			return c
		}
	}
	switch {
	case len(ta) < len(tb):
		return -1
	case len(ta) > len(tb):
		return 1
	}
	return strings.Compare(a, b)
}

// TitleLess reports whether a sorts before b under CompareTitles.
func TitleLess(a, b string) bool {
	return CompareTitles(a, b) < 0
}
