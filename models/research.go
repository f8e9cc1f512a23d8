package models

// ResearchMetadata summarizes how the keyword selection was made
type ResearchMetadata struct {
	TotalKeywordsAnalyzed int      `json:"total_keywords_analyzed"`
	TopKeywordsSelected   int      `json:"top_keywords_selected"`
	AverageMonthlySearch  int64    `json:"average_monthly_search"`
	AveragePurchaseRate   float64  `json:"average_purchase_rate"`
	CompetitorASINs       []string `json:"competitor_asins"`
}

// MarketResearch is the structured input handed to the generation prompts:
// the top keywords by relevance, their volumes, and the competitor context
// extracted from the normalized spreadsheets.
type MarketResearch struct {
	BrandName              string           `json:"brand_name"`
	ProductType            string           `json:"product_type"`
	CompetitorBrands       []string         `json:"competitor_brands"`
	CoreKeywords           []string         `json:"core_keywords"`
	WordFrequency          map[string]int64 `json:"word_frequency,omitempty"`
	CompetitorTitles       []string         `json:"competitor_titles"`
	FivePointsRequirements []string         `json:"five_points_requirements"`
	Metadata               ResearchMetadata `json:"metadata"`
}

// WithoutWordFrequency returns a copy with the (large) frequency map removed,
// used when embedding the research into the result envelope.
func (m MarketResearch) WithoutWordFrequency() *MarketResearch {
	out := m
	out.WordFrequency = nil
	return &out
}
