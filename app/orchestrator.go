package app

import (
	"context"
	"time"

	"golisting/ai"
	"golisting/domain/core"
	appErrors "golisting/internal/errors"
	"golisting/models"
)

// Typed fragments for the step replies; JSON keys follow the output contract.
type titlesPart struct {
	Titles []string `json:"titles"`
}

type bulletsPart struct {
	BulletPointsVersion1 []string `json:"bullet_points_version_1"`
	BulletPointsVersion2 []string `json:"bullet_points_version_2"`
}

type descriptionPart struct {
	ProductDescription string `json:"product_description"`
	SearchKeywords     string `json:"search_keywords"`
}

type qualityPart struct {
	QualityCheckResults models.QualityCheckResults `json:"quality_check_results"`
}

type rationalePart struct {
	Rationale models.Rationale `json:"rationale"`
}

// orchestratorDocument is the accumulated state re-injected into each step
type orchestratorDocument struct {
	InputData           *models.MarketResearch      `json:"INPUT_DATA"`
	Titles              []string                    `json:"titles,omitempty"`
	BulletsVersion1     []string                    `json:"bullet_points_version_1,omitempty"`
	BulletsVersion2     []string                    `json:"bullet_points_version_2,omitempty"`
	ProductDescription  string                      `json:"product_description,omitempty"`
	SearchKeywords      string                      `json:"search_keywords,omitempty"`
	QualityCheckResults *models.QualityCheckResults `json:"quality_check_results,omitempty"`
}

// GenerateOrchestrated runs the six-step path: research ingestion, titles,
// bullet points, description and keywords, quality check, rationale. Steps
// run in fixed order; each content step must succeed, while quality and
// rationale failures degrade to warnings so a usable listing still comes
// back.
func (s *ListingService) GenerateOrchestrated(ctx context.Context, req GenerateRequest) (*models.GenerationResult, error) {
	started := time.Now()
	model := req.model(s.config)

	// Step 1/6: ingest and structure the input files.
	s.logger.Info("Step 1/6: Processing input files")
	input, err := s.BuildResearch(req)
	if err != nil {
		return nil, err
	}
	researchJSON, err := ai.MarshalForPrompt(input)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering research for prompt")
	}

	var content models.ListingContent

	// Step 2/6: titles.
	s.logger.Info("Step 2/6: Generating title variations")
	titles, err := step[titlesPart](ctx, s, model, ai.TitlesPrompt(researchJSON), "titles")
	if err != nil {
		return nil, err
	}
	content.Titles = titles.Titles
	titlesJSON, err := ai.MarshalForPrompt(titles)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering titles for prompt")
	}

	// Step 3/6: bullet points.
	s.logger.Info("Step 3/6: Generating bullet points")
	bullets, err := step[bulletsPart](ctx, s, model, ai.BulletPointsPrompt(researchJSON, titlesJSON), "bullet_points")
	if err != nil {
		return nil, err
	}
	content.BulletPointsVersion1 = bullets.BulletPointsVersion1
	content.BulletPointsVersion2 = bullets.BulletPointsVersion2
	bulletsJSON, err := ai.MarshalForPrompt(bullets)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering bullets for prompt")
	}

	// Step 4/6: description and backend keywords.
	s.logger.Info("Step 4/6: Generating description and search keywords")
	description, err := step[descriptionPart](ctx, s, model, ai.DescriptionPrompt(researchJSON, titlesJSON, bulletsJSON), "description")
	if err != nil {
		return nil, err
	}
	content.ProductDescription = description.ProductDescription
	content.SearchKeywords = description.SearchKeywords

	document := orchestratorDocument{
		InputData:          input,
		Titles:             content.Titles,
		BulletsVersion1:    content.BulletPointsVersion1,
		BulletsVersion2:    content.BulletPointsVersion2,
		ProductDescription: content.ProductDescription,
		SearchKeywords:     content.SearchKeywords,
	}

	// Step 5/6: quality check (soft failure).
	s.logger.Info("Step 5/6: Performing quality validation")
	documentJSON, err := ai.MarshalForPrompt(document)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering document for prompt")
	}
	if quality, err := step[qualityPart](ctx, s, model, ai.QualityCheckPrompt(documentJSON), "quality_check"); err != nil {
		s.logger.Warn("Quality check step failed, continuing without scores: %v", err)
	} else {
		content.QualityCheckResults = quality.QualityCheckResults
		document.QualityCheckResults = &quality.QualityCheckResults
		s.reportQuality(quality.QualityCheckResults)
	}

	// Step 6/6: rationale (soft failure).
	s.logger.Info("Step 6/6: Generating SEO rationale")
	finalJSON, err := ai.MarshalForPrompt(document)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering final document for prompt")
	}
	if rationale, err := step[rationalePart](ctx, s, model, ai.RationalePrompt(finalJSON), "rationale"); err != nil {
		s.logger.Warn("Rationale step failed, continuing without analysis: %v", err)
	} else {
		content.Rationale = rationale.Rationale
	}

	if err := content.Validate(); err != nil {
		s.logger.Warn("Generated content violates the structural contract: %v", err)
	}

	return s.assemble(content, input, req, model, started), nil
}

// step runs one typed model call, tagging failures with the step name so
// callers can tell which stage broke.
func step[T any](ctx context.Context, s *ListingService, model, prompt, name string) (*T, error) {
	agent := ai.NewStructuredClient[T](s.client, model, s.config.MaxTokens)
	result, err := agent.GetJSONResponse(ctx, prompt)
	if err != nil {
		if core.IsGenerationError(err) {
			return nil, appErrors.WithCode(appErrors.CodeExternalService, err)
		}
		return nil, appErrors.WithCode(appErrors.CodeExternalService, core.NewModelResponseError(name, err))
	}
	return result, nil
}
