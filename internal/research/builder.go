// Package research joins the cleaned seller_elf and sif keyword tables into
// the MarketResearch document the generation prompts consume: keywords ranked
// by a weighted relevance composite, plus competitor context.
package research

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"golisting/domain/tabular"
	"golisting/internal"
	"golisting/models"
)

var logger = internal.NewLogger("Research")

// Relevance weights over max-normalized metrics. They favor monthly demand
// over the weekly signal from the sif export.
const (
	weightMonthlySearch  = 0.30
	weightMonthlyBuys    = 0.25
	weightPurchaseRate   = 0.20
	weightTrafficShare   = 0.15
	weightWeeklySearch   = 0.10
	defaultTopN          = 50
	maxCompetitorASINs   = 10
	competitorTitleCount = 5
)

// Column labels of the two exports
const (
	colKeyword       = "关键词"
	colMonthlyVolume = "月搜索量"
	colMonthlyBuys   = "月购买量"
	colPurchaseRate  = "购买率"
	colTrafficShare  = "流量占比"
	colWeeklyVolume  = "周搜索量"
	colTopASINs      = "前十ASIN"
)

// Params are the caller-supplied research knobs
type Params struct {
	BrandName   string
	ProductType string
	TopN        int
}

// Build merges the two normalized tables on the keyword column, scores each
// keyword, and assembles the MarketResearch document. The sif table is the
// left-joined side: keywords missing from it score zero on the weekly metric.
func Build(sellerElf, sif tabular.Table, params Params) (*models.MarketResearch, error) {
	if sellerElf.RowCount() == 0 {
		return nil, fmt.Errorf("seller_elf table has no keyword rows")
	}
	topN := params.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	weeklyByKeyword := make(map[string]float64, sif.RowCount())
	for _, row := range sif.Rows {
		keyword := row.Get(colKeyword).AsString()
		if volume, ok := row.Get(colWeeklyVolume).AsFloat64(); ok && keyword != "" {
			weeklyByKeyword[keyword] = volume
		}
	}

	n := sellerElf.RowCount()
	monthly := make([]float64, n)
	buys := make([]float64, n)
	rate := make([]float64, n)
	traffic := make([]float64, n)
	weekly := make([]float64, n)
	keywords := make([]string, n)

	for i, row := range sellerElf.Rows {
		keywords[i] = row.Get(colKeyword).AsString()
		monthly[i] = floatOrZero(row, colMonthlyVolume)
		buys[i] = floatOrZero(row, colMonthlyBuys)
		rate[i] = floatOrZero(row, colPurchaseRate)
		traffic[i] = floatOrZero(row, colTrafficShare)
		weekly[i] = weeklyByKeyword[keywords[i]]
	}

	scores := make([]float64, n)
	floats.AddScaled(scores, weightMonthlySearch, maxNormalized(monthly))
	floats.AddScaled(scores, weightMonthlyBuys, maxNormalized(buys))
	floats.AddScaled(scores, weightPurchaseRate, maxNormalized(rate))
	floats.AddScaled(scores, weightTrafficShare, maxNormalized(traffic))
	floats.AddScaled(scores, weightWeeklySearch, maxNormalized(weekly))

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if topN < len(order) {
		order = order[:topN]
	}

	coreKeywords := make([]string, 0, len(order))
	wordFrequency := make(map[string]int64, len(order))
	var asins []string
	seenASIN := make(map[string]bool)
	var volumeSum, rateSum float64

	for _, i := range order {
		coreKeywords = append(coreKeywords, keywords[i])
		wordFrequency[keywords[i]] = int64(monthly[i])
		volumeSum += monthly[i]
		rateSum += rate[i]

		for _, asin := range sellerElf.Rows[i].Get(colTopASINs).ListVal {
			if len(asins) >= maxCompetitorASINs {
				break
			}
			if !seenASIN[asin] {
				seenASIN[asin] = true
				asins = append(asins, asin)
			}
		}
	}

	research := &models.MarketResearch{
		BrandName:              params.BrandName,
		ProductType:            params.ProductType,
		CompetitorBrands:       competitorBrands(),
		CoreKeywords:           coreKeywords,
		WordFrequency:          wordFrequency,
		CompetitorTitles:       competitorTitles(coreKeywords),
		FivePointsRequirements: fivePointRequirements(coreKeywords),
		Metadata: models.ResearchMetadata{
			TotalKeywordsAnalyzed: n,
			TopKeywordsSelected:   len(coreKeywords),
			AverageMonthlySearch:  int64(volumeSum / float64(len(coreKeywords))),
			AveragePurchaseRate:   rateSum / float64(len(coreKeywords)),
			CompetitorASINs:       asins,
		},
	}

	logger.Info("%s / %s: %d keywords analyzed, %d selected, %d competitor ASINs",
		params.BrandName, params.ProductType, n, len(coreKeywords), len(asins))
	return research, nil
}

func floatOrZero(row tabular.Record, column string) float64 {
	if f, ok := row.Get(column).AsFloat64(); ok {
		return f
	}
	return 0
}

// maxNormalized scales a copy of the metric into [0,1] by its maximum.
// All-zero metrics stay zero rather than dividing by zero.
func maxNormalized(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(out) == 0 {
		return out
	}
	if max := floats.Max(out); max > 0 {
		floats.Scale(1/max, out)
	}
	return out
}

// The exports carry no brand or title columns; these stand-ins keep the
// prompt contract filled until a listing scrape source exists.
func competitorBrands() []string {
	return []string{"UGG", "Bearpaw", "Dearfoams", "Skechers", "Crocs"}
}

func competitorTitles(coreKeywords []string) []string {
	count := competitorTitleCount
	if len(coreKeywords) < count {
		count = len(coreKeywords)
	}
	titles := make([]string, count)
	for i := 0; i < count; i++ {
		titles[i] = coreKeywords[i] + " - Premium Quality"
	}
	return titles
}

func fivePointRequirements(coreKeywords []string) []string {
	first, second := "slippers", "comfortable"
	if len(coreKeywords) > 0 {
		first = coreKeywords[0]
	}
	if len(coreKeywords) > 1 {
		second = coreKeywords[1]
	}
	return []string{
		fmt.Sprintf("Optimized for top keyword: %s", first),
		fmt.Sprintf("Target high-conversion terms like '%s'", second),
		"Plush, cozy comfort (faux fur/fleece lining)",
		"Durable, non-slip rubber outsole",
		"True-to-size fit with wide-width options",
	}
}
