// Package app wires the normalizer, the research builder and the LLM agents
// into the two generation paths: the one-shot single agent and the six-step
// orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golisting/ai"
	"golisting/domain/core"
	"golisting/domain/tabular"
	"golisting/internal"
	appErrors "golisting/internal/errors"
	"golisting/internal/normalizer"
	"golisting/internal/research"
	"golisting/models"
	"golisting/ports"
)

// GenerateRequest describes one listing generation run
type GenerateRequest struct {
	SellerElfPath string
	SifPath       string
	BrandName     string
	ProductType   string
	TopN          int
	Model         string // overrides the configured model when set
}

// Validate rejects requests the pipeline cannot serve
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.SellerElfPath) == "" || strings.TrimSpace(r.SifPath) == "" {
		return appErrors.InvalidInput("both seller_elf and sif input files are required")
	}
	if strings.TrimSpace(r.BrandName) == "" {
		return appErrors.InvalidInput("brand_name is required and cannot be empty")
	}
	if strings.TrimSpace(r.ProductType) == "" {
		return appErrors.InvalidInput("product_type is required and cannot be empty")
	}
	return nil
}

func (r GenerateRequest) model(config *models.AIConfig) string {
	if strings.TrimSpace(r.Model) != "" {
		return r.Model
	}
	return config.Model
}

// classifyPipelineError maps normalization failures onto the coded taxonomy
// the CLI and API translate for callers: a missing source is NOT_FOUND,
// unusable source data or profiles are VALIDATION_ERROR.
func classifyPipelineError(err error, context string) error {
	wrapped := appErrors.Wrap(err, context)
	switch {
	case errors.Is(err, core.ErrSourceNotFound):
		return appErrors.WithCode(appErrors.CodeNotFound, wrapped)
	case core.IsSourceError(err) || core.IsProfileError(err):
		return appErrors.WithCode(appErrors.CodeValidationError, wrapped)
	}
	return wrapped
}

// ListingService runs listing generation end to end
type ListingService struct {
	config        *models.AIConfig
	client        ports.LLMClient
	processor     *normalizer.Processor
	logger        *internal.Logger
	passThreshold int
}

// NewListingService creates the service. passThreshold is the minimum
// quality-check component score before a warning is logged.
func NewListingService(config *models.AIConfig, client ports.LLMClient, passThreshold int) *ListingService {
	return &ListingService{
		config:        config,
		client:        client,
		processor:     normalizer.New(),
		logger:        internal.NewLogger("ListingService"),
		passThreshold: passThreshold,
	}
}

// BuildResearch cleans both spreadsheets and joins them into the
// MarketResearch document the prompts consume.
func (s *ListingService) BuildResearch(req GenerateRequest) (*models.MarketResearch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sellerElf, err := s.processor.Process(req.SellerElfPath, normalizer.Options{
		Profile: tabular.ProfileSellerElf,
		Format:  normalizer.FormatRecords,
	})
	if err != nil {
		return nil, classifyPipelineError(err, fmt.Sprintf("processing seller_elf file %s", req.SellerElfPath))
	}

	sif, err := s.processor.Process(req.SifPath, normalizer.Options{
		Profile: tabular.ProfileSif,
		Format:  normalizer.FormatRecords,
	})
	if err != nil {
		return nil, classifyPipelineError(err, fmt.Sprintf("processing sif file %s", req.SifPath))
	}

	built, err := research.Build(sellerElf.Table, sif.Table, research.Params{
		BrandName:   req.BrandName,
		ProductType: req.ProductType,
		TopN:        req.TopN,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "building market research")
	}
	return built, nil
}

// GenerateSingle runs the one-shot path: one comprehensive prompt producing
// the whole listing document.
func (s *ListingService) GenerateSingle(ctx context.Context, req GenerateRequest) (*models.GenerationResult, error) {
	started := time.Now()

	input, err := s.BuildResearch(req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Single agent: %d core keywords, %d competitor brands",
		len(input.CoreKeywords), len(input.CompetitorBrands))

	researchJSON, err := ai.MarshalForPrompt(input)
	if err != nil {
		return nil, appErrors.Wrap(err, "rendering research for prompt")
	}

	model := req.model(s.config)
	agent := ai.NewStructuredClient[models.ListingContent](s.client, model, s.config.MaxTokens)
	content, err := agent.GetJSONResponse(ctx, ai.SingleAgentPrompt(researchJSON))
	if err != nil {
		return nil, appErrors.WithCode(appErrors.CodeExternalService, err)
	}

	if err := content.Validate(); err != nil {
		s.logger.Warn("Generated content violates the structural contract: %v", err)
	}
	s.reportQuality(content.QualityCheckResults)

	return s.assemble(*content, input, req, model, started), nil
}

func (s *ListingService) reportQuality(quality models.QualityCheckResults) {
	s.logger.Info("Quality check: %s (min component score %d)", quality.OverallStatus, quality.MinScore())
	if quality.MinScore() < s.passThreshold {
		s.logger.Warn("Quality below threshold %d: issues=%v", s.passThreshold, quality.Issues)
	}
}

func (s *ListingService) assemble(content models.ListingContent, input *models.MarketResearch, req GenerateRequest, model string, started time.Time) *models.GenerationResult {
	metadata := models.NewRunMetadata(model,
		[]string{filepath.Base(req.SellerElfPath), filepath.Base(req.SifPath)},
		models.RunParameters{BrandName: req.BrandName, ProductType: req.ProductType, TopN: req.TopN})
	metadata.DurationSeconds = time.Since(started).Seconds()

	return &models.GenerationResult{
		ListingContent: content,
		MarketResearch: input.WithoutWordFrequency(),
		Metadata:       metadata,
	}
}
