package engine

import (
	"regexp"
	"strings"
)

// defaultStopwords is the fixed set of common English words excluded from
// tokenization and keyword extraction.
var defaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "from", "up", "about", "into", "through", "during", "is", "are", "was",
	"were", "be", "been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "could", "should", "may", "might", "shall", "can", "need", "dare",
	"ought", "used", "it", "its", "this", "that", "these", "those", "i", "you", "he",
	"she", "we", "they", "what", "which", "who", "whom", "when", "where", "why", "how",
	"all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
	"no", "not", "only", "same", "so", "than", "too", "very", "just", "as", "if",
	"then", "because", "while", "although", "though", "unless", "until", "since",
	"after", "before", "above", "below", "between", "under", "over", "again",
	"further", "once", "here", "there", "own", "s", "t", "re", "ve", "ll", "d",
}

var nonWordPattern = regexp.MustCompile(`[^a-z0-9\s]`)

// Normalizer turns raw text into a cleaned, ordered token sequence.
// Identical input always yields identical output; empty or whitespace-only
// input yields an empty slice, never an error.
type Normalizer struct {
	stopwords   map[string]struct{}
	minTokenLen int
	singularize bool
}

// NewNormalizer creates a normalizer with the given stopword set. An empty
// stopwords slice selects the built-in default set.
func NewNormalizer(stopwords []string, singularize bool) *Normalizer {
	if len(stopwords) == 0 {
		stopwords = defaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{
		stopwords:   set,
		minTokenLen: 3,
		singularize: singularize,
	}
}

// Normalize lowercases, strips punctuation, splits on whitespace and drops
// stopwords and tokens shorter than three characters.
func (n *Normalizer) Normalize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < n.minTokenLen {
			continue
		}
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		if n.singularize {
			tok = singular(tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// singular collapses simple plural forms to reduce surface-form mismatch
// between resume and job-description wording. The rules are deliberately
// conservative: short tokens and tokens with endings that merely look plural
// ("aws", "kubernetes", "less") are left untouched.
func singular(tok string) string {
	if len(tok) < 5 || !strings.HasSuffix(tok, "s") {
		return tok
	}
	switch {
	case strings.HasSuffix(tok, "ss"),
		strings.HasSuffix(tok, "is"),
		strings.HasSuffix(tok, "us"),
		strings.HasSuffix(tok, "os"),
		strings.HasSuffix(tok, "ws"):
		return tok
	case strings.HasSuffix(tok, "ies"):
		return tok[:len(tok)-3] + "y"
	default:
		return tok[:len(tok)-1]
	}
}
