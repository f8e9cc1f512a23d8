package models

import (
	"fmt"
	"strings"

	"golisting/domain/core"
)

// SearchKeywordsMaxLen is Amazon's limit on backend search terms, commas and
// spaces included.
const SearchKeywordsMaxLen = 250

// QualityCheckResults holds the model's self-assessment of the generated
// content. Scores are 0-10.
type QualityCheckResults struct {
	OverallStatus            string   `json:"overall_status"`
	GrammarScore             int      `json:"grammar_score"`
	BrandComplianceScore     int      `json:"brand_compliance_score"`
	AmazonGuidelinesScore    int      `json:"amazon_guidelines_score"`
	KeywordOptimizationScore int      `json:"keyword_optimization_score"`
	ContentQualityScore      int      `json:"content_quality_score"`
	Issues                   []string `json:"issues"`
	Recommendations          []string `json:"recommendations"`
}

// MinScore returns the lowest of the five component scores
func (q QualityCheckResults) MinScore() int {
	min := q.GrammarScore
	for _, s := range []int{q.BrandComplianceScore, q.AmazonGuidelinesScore, q.KeywordOptimizationScore, q.ContentQualityScore} {
		if s < min {
			min = s
		}
	}
	return min
}

// Rationale explains the SEO strategy behind the generated content
type Rationale struct {
	SEOStrategy            string `json:"seo_strategy"`
	KeywordUsage           string `json:"keyword_usage"`
	CompetitivePositioning string `json:"competitive_positioning"`
	RecommendedTitle       string `json:"recommended_title"`
	RecommendedBullets     string `json:"recommended_bullets"`
	OptimizationNotes      string `json:"optimization_notes"`
}

// ListingContent is the complete generated Amazon listing. The JSON field
// names are the output contract consumed by downstream tooling.
type ListingContent struct {
	Titles               []string            `json:"titles"`
	BulletPointsVersion1 []string            `json:"bullet_points_version_1"`
	BulletPointsVersion2 []string            `json:"bullet_points_version_2"`
	ProductDescription   string              `json:"product_description"`
	SearchKeywords       string              `json:"search_keywords"`
	QualityCheckResults  QualityCheckResults `json:"quality_check_results"`
	Rationale            Rationale           `json:"rationale"`
}

// Validate checks the structural contract: 3 titles, two sets of 5 bullets,
// a non-empty description, and backend keywords within the length limit.
func (c ListingContent) Validate() error {
	if len(c.Titles) != 3 {
		return fmt.Errorf("expected 3 titles, got %d", len(c.Titles))
	}
	if len(c.BulletPointsVersion1) != 5 {
		return fmt.Errorf("expected 5 bullets in version 1, got %d", len(c.BulletPointsVersion1))
	}
	if len(c.BulletPointsVersion2) != 5 {
		return fmt.Errorf("expected 5 bullets in version 2, got %d", len(c.BulletPointsVersion2))
	}
	if strings.TrimSpace(c.ProductDescription) == "" {
		return fmt.Errorf("product description is empty")
	}
	if len(c.SearchKeywords) > SearchKeywordsMaxLen {
		return fmt.Errorf("search keywords exceed %d characters (%d)", SearchKeywordsMaxLen, len(c.SearchKeywords))
	}
	return nil
}

// RunParameters are the caller-supplied knobs recorded with each run
type RunParameters struct {
	BrandName   string `json:"brand_name"`
	ProductType string `json:"product_type"`
	TopN        int    `json:"top_n"`
}

// RunMetadata describes one generation run for the output envelope
type RunMetadata struct {
	RunID           string         `json:"run_id"`
	GeneratedAt     core.Timestamp `json:"generated_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Model           string         `json:"model"`
	InputFiles      []string       `json:"input_files"`
	Parameters      RunParameters  `json:"parameters"`
}

// NewRunMetadata stamps a fresh run id and timestamp
func NewRunMetadata(model string, inputFiles []string, params RunParameters) RunMetadata {
	return RunMetadata{
		RunID:       core.NewRunID().String(),
		GeneratedAt: core.Now(),
		Model:       model,
		InputFiles:  inputFiles,
		Parameters:  params,
	}
}

// GenerationResult is the full output envelope: the listing, the market
// research that fed it, and the run metadata.
type GenerationResult struct {
	ListingContent
	MarketResearch *MarketResearch `json:"market_research,omitempty"`
	Metadata       RunMetadata     `json:"metadata"`
}
