package analysis

import (
	"strings"

	"github.com/r-ahemad/radiqa/pkg/model"
)

// radiologyTerms are common radiological findings harvested as keywords
// whenever they appear in the analysis text.
var radiologyTerms = []string{
	"pneumonia", "infiltrates", "opacities", "nodule", "mass", "tumor",
	"cardiomegaly", "effusion", "consolidation", "atelectasis", "edema",
	"fracture", "fibrosis", "emphysema", "pneumothorax", "metastasis",
}

var keywordStopwords = map[string]bool{
	"about": true,
	"with":  true,
	"that":  true,
	"this":  true,
	"these": true,
	"those": true,
}

// ExtractFindings parses the model's free-text analysis and pulls out the
// itemized findings of its "Impression:" section along with up to
// model.MaxKeywords lowercase keywords.
func ExtractFindings(analysisText string) (findings []string, keywords []string) {
	if _, impression, ok := strings.Cut(analysisText, "Impression:"); ok {
		for _, line := range strings.Split(strings.TrimSpace(impression), "\n") {
			item := strings.TrimSpace(line)
			if item == "" || !isItemLine(item) {
				continue
			}

			clean := cleanItem(item)
			if clean == "" {
				continue
			}
			findings = append(findings, clean)

			for _, word := range strings.Fields(clean) {
				word = strings.ToLower(strings.Trim(word, ",.:;()"))
				if len(word) >= 4 && !keywordStopwords[word] {
					keywords = append(keywords, word)
				}
			}
		}
	}

	lower := strings.ToLower(analysisText)
	for _, term := range radiologyTerms {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
		}
	}

	keywords = dedupe(keywords)
	if len(keywords) > model.MaxKeywords {
		keywords = keywords[:model.MaxKeywords]
	}
	return findings, keywords
}

// isItemLine reports whether the line looks like a numbered or bulleted
// impression item.
func isItemLine(item string) bool {
	c := item[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '*'
}

// cleanItem strips the "1." or "-"/"*" marker from an impression item.
func cleanItem(item string) string {
	c := item[0]
	switch {
	case c >= '0' && c <= '9':
		if _, rest, ok := strings.Cut(item, "."); ok {
			return strings.TrimSpace(rest)
		}
		return item
	case c == '-' || c == '*':
		return strings.TrimSpace(item[1:])
	default:
		return item
	}
}

// dedupe removes duplicates while preserving first-seen order
func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
