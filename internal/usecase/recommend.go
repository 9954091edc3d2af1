package usecase

import (
	"fmt"
	"sort"
	"strings"

	"mfc-voice-agent/internal/domain"
)

// RecommendInput describes the operation a recommendation is being built for.
type RecommendInput struct {
	LivestockType   string
	Need            string
	ProductionStage string
	Season          string
}

// Recommendation pairs a product with a generated rationale and a rank score.
type Recommendation struct {
	Product domain.Product `json:"product"`
	Why     string         `json:"why"`
	Rank    int            `json:"-"`
}

// RankProducts scores a candidate set against the caller's operation and
// returns it best-first. Scoring is plain keyword alignment: livestock match
// outweighs need match outweighs season hints, featured products break ties.
// Ties after that break toward the lower product code so ranking is stable.
func RankProducts(products []domain.Product, in RecommendInput) []Recommendation {
	need := strings.ToLower(strings.TrimSpace(in.Need))
	season := strings.ToLower(strings.TrimSpace(in.Season))
	stage := strings.ToLower(strings.TrimSpace(in.ProductionStage))
	livestock := strings.ToLower(strings.TrimSpace(in.LivestockType))

	recs := make([]Recommendation, 0, len(products))
	for _, p := range products {
		rank := 0
		var reasons []string

		if livestock != "" && containsFold(p.Livestock, livestock) {
			rank += 40
			reasons = append(reasons, fmt.Sprintf("formulated for %s", livestock))
		}
		desc := strings.ToLower(p.Description + " " + p.Category)
		if need != "" && strings.Contains(desc, need) {
			rank += 30
			reasons = append(reasons, fmt.Sprintf("targets %s", need))
		}
		if stage != "" && strings.Contains(desc, stage) {
			rank += 15
			reasons = append(reasons, fmt.Sprintf("fits %s operations", stage))
		}
		if season != "" && strings.Contains(desc, season) {
			rank += 10
			reasons = append(reasons, fmt.Sprintf("suited to %s feeding", season))
		}
		if p.Featured {
			rank += 5
		}
		if rank == 0 {
			continue
		}

		why := "A solid general-purpose choice for your operation."
		if len(reasons) > 0 {
			why = strings.ToUpper(reasons[0][:1]) + reasons[0][1:]
			if len(reasons) > 1 {
				why += ", and it " + JoinForSpeech(reasons[1:])
			}
			why += "."
		}
		recs = append(recs, Recommendation{Product: p, Why: why, Rank: rank})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Rank != recs[j].Rank {
			return recs[i].Rank > recs[j].Rank
		}
		return recs[i].Product.Code < recs[j].Product.Code
	})
	return recs
}

func containsFold(set []string, want string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}
