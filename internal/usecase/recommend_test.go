package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mfc-voice-agent/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{Code: "RB-200", Name: "Range Boss", Category: "Protein", Description: "20% protein range cake for winter grazing", Livestock: []string{"cattle"}},
		{Code: "CC-100", Name: "Calf Creep", Category: "Starter", Description: "creep feed for spring calves", Livestock: []string{"cattle"}},
		{Code: "WG-300", Name: "Weather Guard", Category: "Mineral", Description: "weatherized loose mineral", Livestock: []string{"cattle", "sheep"}, Featured: true},
		{Code: "EQ-400", Name: "Trail Mix", Category: "Equine", Description: "textured horse feed", Livestock: []string{"horse"}},
	}
}

func TestRankProducts_LivestockMatchOutweighsNeed(t *testing.T) {
	recs := RankProducts(testProducts(), RecommendInput{LivestockType: "cattle", Need: "protein"})
	require.NotEmpty(t, recs)
	require.Equal(t, "RB-200", recs[0].Product.Code)
	require.Contains(t, recs[0].Why, "cattle")
}

func TestRankProducts_DropsZeroRank(t *testing.T) {
	recs := RankProducts(testProducts(), RecommendInput{LivestockType: "goat", Need: "silage"})
	require.Empty(t, recs)
}

func TestRankProducts_FeaturedBreaksTies(t *testing.T) {
	// Both cattle products score 40 on livestock alone; the featured one wins.
	recs := RankProducts(testProducts(), RecommendInput{LivestockType: "cattle"})
	require.Len(t, recs, 3)
	require.Equal(t, "WG-300", recs[0].Product.Code)
}

func TestRankProducts_CodeBreaksRemainingTies(t *testing.T) {
	recs := RankProducts(testProducts(), RecommendInput{LivestockType: "cattle"})
	require.Equal(t, "CC-100", recs[1].Product.Code)
	require.Equal(t, "RB-200", recs[2].Product.Code)
}

func TestRankProducts_SeasonAndStageHints(t *testing.T) {
	recs := RankProducts(testProducts(), RecommendInput{LivestockType: "cattle", Need: "protein", Season: "winter"})
	require.Equal(t, "RB-200", recs[0].Product.Code)
	require.Equal(t, 80, recs[0].Rank)
	require.Contains(t, recs[0].Why, "winter")
}
