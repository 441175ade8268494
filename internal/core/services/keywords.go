package services

import (
	"math"
	"regexp"
	"strings"
)

// Question words and filler terms excluded from keyword extraction.
// RATE, PICKUP and DELIVERY appear in nearly every transportation
// question and carry no discriminating power as substrings.
var keywordStopList = map[string]struct{}{
	"WHAT": {}, "WHEN": {}, "WHERE": {}, "WHO": {}, "WHICH": {},
	"TELL": {}, "SHOW": {}, "GIVE": {}, "PLEASE": {},
	"RATE": {}, "PICKUP": {}, "DELIVERY": {},
}

var (
	upperTokenRE = regexp.MustCompile(`[A-Z0-9][A-Z0-9-]{3,}`)
	emailTokenRE = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	moneyTokenRE = regexp.MustCompile(`\$\s*[0-9][0-9,]*(?:\.[0-9]+)?`)
	lowerTokenRE = regexp.MustCompile(`\b[a-z][a-z0-9]{3,}\b`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	upperLetter  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ExtractKeywords pulls exact-match keyword tokens out of a question:
// uppercase identifiers, emails, dollar amounts and long lowercase
// words, minus stop-listed terms. Tokens are deduplicated, first
// occurrence order preserved.
func ExtractKeywords(question string) []string {
	var tokens []string
	seen := make(map[string]struct{})

	add := func(tok string) {
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	// Uppercase identifier tokens: length >= 4, not purely numeric,
	// not a stop-listed question word.
	for _, tok := range upperTokenRE.FindAllString(question, -1) {
		if !strings.ContainsAny(tok, upperLetter) {
			continue
		}
		if _, stopped := keywordStopList[tok]; stopped {
			continue
		}
		add(tok)
	}

	for _, tok := range emailTokenRE.FindAllString(question, -1) {
		add(tok)
	}

	// Dollar amounts with interior whitespace removed ("$ 1,200" -> "$1,200").
	for _, tok := range moneyTokenRE.FindAllString(question, -1) {
		add(whitespaceRE.ReplaceAllString(tok, ""))
	}

	for _, tok := range lowerTokenRE.FindAllString(question, -1) {
		if _, stopped := keywordStopList[strings.ToUpper(tok)]; stopped {
			continue
		}
		add(tok)
	}

	return tokens
}

// KeywordScore measures lexical overlap between a candidate text and
// the extracted question tokens. Case-sensitive hits on uppercase
// identifiers weigh 1.5, case-insensitive hits 0.6; the sum is
// normalized by max(3, token count) and clamped to 1.0.
func KeywordScore(text string, tokens []string) float64 {
	if len(tokens) == 0 || text == "" {
		return 0.0
	}

	lowerText := strings.ToLower(text)

	var sum float64
	for _, tok := range tokens {
		if isUpperToken(tok) && strings.Contains(text, tok) {
			sum += 1.5
			continue
		}
		if strings.Contains(lowerText, strings.ToLower(tok)) {
			sum += 0.6
		}
	}

	score := sum / math.Max(3.0, float64(len(tokens)))
	return math.Min(score, 1.0)
}

// isUpperToken reports whether a token is an uppercase identifier
// (no lowercase letters, at least one letter).
func isUpperToken(tok string) bool {
	return tok == strings.ToUpper(tok) && strings.ContainsAny(tok, upperLetter)
}
