package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContent() ListingContent {
	return ListingContent{
		Titles: []string{"Title A", "Title B", "Title C"},
		BulletPointsVersion1: []string{
			"COZY COMFORT bullet", "DURABLE SOLE bullet", "TRUE FIT bullet",
			"EASY CARE bullet", "GIFT READY bullet",
		},
		BulletPointsVersion2: []string{
			"WARM LINING bullet", "NON-SLIP bullet", "WIDE WIDTH bullet",
			"MACHINE WASH bullet", "ALL SEASON bullet",
		},
		ProductDescription: "A long-form description of the product.",
		SearchKeywords:     "house shoes, indoor slippers, fuzzy slippers",
	}
}

func TestListingContentValidate(t *testing.T) {
	require.NoError(t, validContent().Validate())

	short := validContent()
	short.Titles = short.Titles[:2]
	assert.ErrorContains(t, short.Validate(), "3 titles")

	bullets := validContent()
	bullets.BulletPointsVersion2 = bullets.BulletPointsVersion2[:4]
	assert.ErrorContains(t, bullets.Validate(), "version 2")

	long := validContent()
	long.SearchKeywords = strings.Repeat("slipper, ", 40)
	assert.ErrorContains(t, long.Validate(), "250 characters")
}

func TestQualityCheckMinScore(t *testing.T) {
	q := QualityCheckResults{
		GrammarScore:             9,
		BrandComplianceScore:     10,
		AmazonGuidelinesScore:    6,
		KeywordOptimizationScore: 8,
		ContentQualityScore:      7,
	}
	assert.Equal(t, 6, q.MinScore())
}

// The JSON field names are the output contract; downstream tooling matches
// them exactly.
func TestGenerationResultContract(t *testing.T) {
	result := GenerationResult{
		ListingContent: validContent(),
		MarketResearch: (&MarketResearch{
			BrandName:     "Amazing Cosy",
			WordFrequency: map[string]int64{"slippers": 700329},
		}).WithoutWordFrequency(),
		Metadata: NewRunMetadata("gpt-4o-mini", []string{"seller_elf.xlsx", "sif.xlsx"}, RunParameters{
			BrandName: "Amazing Cosy", ProductType: "Women's Slippers", TopN: 50,
		}),
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"titles", "bullet_points_version_1", "bullet_points_version_2",
		"product_description", "search_keywords", "quality_check_results",
		"rationale", "market_research", "metadata",
	} {
		assert.Contains(t, decoded, key)
	}

	research := decoded["market_research"].(map[string]interface{})
	assert.NotContains(t, research, "word_frequency")

	metadata := decoded["metadata"].(map[string]interface{})
	assert.NotEmpty(t, metadata["run_id"])
	assert.Equal(t, "gpt-4o-mini", metadata["model"])
}
