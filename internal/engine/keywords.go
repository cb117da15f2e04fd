package engine

import (
	"math"
	"sort"

	"resumatch/internal/types"
)

// KeywordScorer compares a resume against a job description in TF-IDF vector
// space and extracts the job description's most important terms.
type KeywordScorer struct {
	normalizer *Normalizer
	topN       int
}

// NewKeywordScorer creates a scorer that extracts the top-n job-description
// keywords. n values below 1 fall back to 25.
func NewKeywordScorer(normalizer *Normalizer, topN int) *KeywordScorer {
	if topN < 1 {
		topN = 25
	}
	return &KeywordScorer{normalizer: normalizer, topN: topN}
}

// Score computes the cosine similarity between the two documents and
// partitions the top job-description keywords into matched and missing.
// Either document normalizing to zero tokens yields similarity 0.
func (k *KeywordScorer) Score(resumeText, jdText string) *types.KeywordResult {
	resumeTokens := k.normalizer.Normalize(resumeText)
	jdTokens := k.normalizer.Normalize(jdText)

	similarity := cosineSimilarity(resumeTokens, jdTokens)
	keywords := k.topKeywords(jdTokens)

	resumeSet := make(map[string]struct{}, len(resumeTokens))
	for _, tok := range resumeTokens {
		resumeSet[tok] = struct{}{}
	}

	matched := make([]string, 0, len(keywords))
	missing := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if _, ok := resumeSet[kw]; ok {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	return &types.KeywordResult{
		Matched:    matched,
		Missing:    missing,
		Keywords:   keywords,
		Similarity: similarity,
		Score:      int(math.Round(similarity * 100)),
	}
}

// ExtractKeywords returns the top job-description keywords by TF-IDF weight
func (k *KeywordScorer) ExtractKeywords(jdText string) []string {
	return k.topKeywords(k.normalizer.Normalize(jdText))
}

// cosineSimilarity builds TF-IDF vectors for both token sequences over their
// shared vocabulary and returns the cosine of the angle between them.
func cosineSimilarity(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	vocab := make([]string, 0, len(tokensA)+len(tokensB))
	seen := make(map[string]struct{}, len(tokensA)+len(tokensB))
	for _, tok := range tokensA {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			vocab = append(vocab, tok)
		}
	}
	for _, tok := range tokensB {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			vocab = append(vocab, tok)
		}
	}

	tfA := termFrequency(tokensA)
	tfB := termFrequency(tokensB)

	var dot, magA, magB float64
	for _, term := range vocab {
		idf := inverseDocFrequency(term, tfA, tfB)
		a := tfA[term] * idf
		b := tfB[term] * idf
		dot += a * b
		magA += a * a
		magB += b * b
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// termFrequency returns per-term frequency normalized by document length
func termFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	total := float64(len(tokens))
	for tok, c := range counts {
		counts[tok] = c / total
	}
	return counts
}

// inverseDocFrequency computes smoothed IDF for a term over the two-document
// corpus: ln((1+N)/(1+df)) + 1.
func inverseDocFrequency(term string, tfA, tfB map[string]float64) float64 {
	df := 0
	if _, ok := tfA[term]; ok {
		df++
	}
	if _, ok := tfB[term]; ok {
		df++
	}
	if df == 0 {
		return 0
	}
	return math.Log(float64(1+2)/float64(1+df)) + 1
}

// topKeywords ranks the document's terms by TF-IDF weight within the single
// document (using ln(1/tf) as the rarity proxy) and returns the top n.
// Equal weights keep first-occurrence order.
func (k *KeywordScorer) topKeywords(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}

	tf := termFrequency(tokens)

	order := make([]string, 0, len(tf))
	seen := make(map[string]struct{}, len(tf))
	for _, tok := range tokens {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			order = append(order, tok)
		}
	}

	weights := make(map[string]float64, len(tf))
	for term, freq := range tf {
		weights[term] = freq * (1 + math.Log(1/freq))
	}

	sort.SliceStable(order, func(i, j int) bool {
		return weights[order[i]] > weights[order[j]]
	})

	if len(order) > k.topN {
		order = order[:k.topN]
	}
	return order
}
