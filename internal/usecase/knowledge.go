package usecase

import (
	"sort"
	"strings"

	"mfc-voice-agent/internal/domain"
)

const maxKnowledgeResults = 3

// MatchKnowledge ranks Q&A rows against a free-text question, an optional
// category filter, and explicit keywords, returning up to three matches.
// Scoring counts keyword hits; category mismatches are dropped outright.
func MatchKnowledge(entries []domain.KnowledgeEntry, question, category string, keywords []string) []domain.KnowledgeEntry {
	category = strings.ToLower(strings.TrimSpace(category))
	terms := knowledgeTerms(question, keywords)

	type scored struct {
		entry domain.KnowledgeEntry
		score int
	}
	var matches []scored
	for _, e := range entries {
		if category != "" && strings.ToLower(e.Category) != category {
			continue
		}

		score := 0
		haystack := strings.ToLower(e.Question + " " + e.Answer)
		for _, t := range terms {
			if strings.Contains(haystack, t) {
				score++
			}
			for _, k := range e.Keywords {
				if strings.EqualFold(k, t) {
					score += 2
				}
			}
		}
		if score == 0 && (category == "" || len(terms) > 0) {
			continue
		}
		matches = append(matches, scored{entry: e, score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].entry.ID < matches[j].entry.ID
	})

	out := make([]domain.KnowledgeEntry, 0, maxKnowledgeResults)
	for _, m := range matches {
		out = append(out, m.entry)
		if len(out) == maxKnowledgeResults {
			break
		}
	}
	return out
}

// knowledgeTerms splits the question into lowercase terms, dropping filler
// words too short to be meaningful, and appends the explicit keywords.
func knowledgeTerms(question string, keywords []string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,!?'\"")
		if len(w) > 3 {
			terms = append(terms, w)
		}
	}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			terms = append(terms, k)
		}
	}
	return terms
}
