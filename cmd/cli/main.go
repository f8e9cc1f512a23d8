package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"golisting/adapters/llm"
	"golisting/app"
	"golisting/internal/config"
	appErrors "golisting/internal/errors"
	"golisting/internal/normalizer"
	"golisting/models"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "golisting",
		Short: "Amazon listing generator: keyword spreadsheet normalization and LLM content generation",
	}

	rootCmd.AddCommand(
		newNormalizeCmd(),
		newGenerateCmd(),
		newSingleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto distinct exit codes
func exitCode(err error) int {
	switch appErrors.GetCode(err) {
	case appErrors.CodeInvalidInput, appErrors.CodeValidationError:
		return 2
	case appErrors.CodeNotFound:
		return 3
	case appErrors.CodeExternalService:
		return 4
	case appErrors.CodeConfigInvalid:
		return 5
	}
	return 1
}

func newNormalizeCmd() *cobra.Command {
	var (
		profile   string
		format    string
		maxRows   int
		headerRow int
		raw       bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "normalize [file...]",
		Short: "Run the normalization pipeline alone and print or write the rendering",
		Long: `Clean one or more keyword spreadsheets (xlsx or csv) and render the result.

With one file the rendering is the bare document; with several, one tagged
section per file. The profile is auto-detected from the column set unless
--profile names one explicitly.

Example: golisting normalize data/seller_elf.xlsx --format markdown --max-rows 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedFormat, err := normalizer.ParseFormat(format)
			if err != nil {
				return appErrors.InvalidInput(err.Error())
			}

			var rendered string
			processor := normalizer.New()
			if len(args) == 1 {
				result, err := processor.Process(args[0], normalizer.Options{
					Profile:   profile,
					HeaderRow: headerRow,
					MaxRows:   maxRows,
					Format:    parsedFormat,
					Raw:       raw,
				})
				if err != nil {
					return err
				}
				rendered = result.Output
				if parsedFormat == normalizer.FormatRecords {
					rendered = fmt.Sprintf("%d records (profile %s, %d dropped)",
						result.Table.RowCount(), result.Table.Profile, result.Report.RowsDropped)
				}
			} else {
				if parsedFormat == normalizer.FormatRecords {
					return appErrors.InvalidInput("records format renders a single file; use markdown or json for several")
				}
				sources := make([]normalizer.Source, len(args))
				for i, path := range args {
					sources[i] = normalizer.Source{Path: path, Profile: profile}
				}
				multi, err := processor.ProcessMultiple(sources, parsedFormat, maxRows)
				if err != nil {
					return err
				}
				rendered = multi.Output
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			}
			return os.WriteFile(output, []byte(rendered+"\n"), 0o644)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Format profile (seller_elf, sif); empty auto-detects")
	cmd.Flags().StringVar(&format, "format", string(normalizer.FormatMarkdown), "Output format: markdown, json or records")
	cmd.Flags().IntVar(&maxRows, "max-rows", 100, "Maximum rows in the output; 0 disables truncation")
	cmd.Flags().IntVar(&headerRow, "header-row", 0, "Zero-based header row override")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip coercion/filter/sort and render the loader output")
	cmd.Flags().StringVar(&output, "output", "", "Write the rendering to this file instead of stdout")

	return cmd
}

// generationFlags are shared by the generate and single subcommands
type generationFlags struct {
	sellerElf   string
	sif         string
	brandName   string
	productType string
	topN        int
	model       string
	output      string
}

func (f *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sellerElf, "seller-elf", "data/seller_elf.xlsx", "Path to the seller_elf export")
	cmd.Flags().StringVar(&f.sif, "sif", "data/sif.xlsx", "Path to the sif export")
	cmd.Flags().StringVar(&f.brandName, "brand-name", "Amazing Cosy", "Brand name")
	cmd.Flags().StringVar(&f.productType, "product-type", "Women's Slippers", "Product type")
	cmd.Flags().IntVar(&f.topN, "top-n", 50, "Number of top keywords to use")
	cmd.Flags().StringVar(&f.model, "model", "", "Model override; defaults to LLM_MODEL")
	cmd.Flags().StringVar(&f.output, "output", "output/listing.json", "Path of the result JSON file")
}

func newGenerateCmd() *cobra.Command {
	flags := &generationFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a listing with the six-step orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd, flags, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func newSingleCmd() *cobra.Command {
	flags := &generationFlags{}
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Generate a listing with one comprehensive prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd, flags, true)
		},
	}
	flags.register(cmd)
	return cmd
}

func runGeneration(cmd *cobra.Command, flags *generationFlags, single bool) error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		return appErrors.ConfigInvalid("LLM_API_KEY is required for generation")
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:        cfg.AI.APIKey,
		BaseURL:       cfg.AI.BaseURL,
		Temperature:   cfg.AI.Temperature,
		Timeout:       cfg.AI.Timeout,
		MaxConcurrent: cfg.AI.MaxConcurrent,
	})
	if err != nil {
		return appErrors.Wrap(err, "creating LLM client")
	}

	service := app.NewListingService(cfg.AI, client, cfg.Quality.PassThreshold)
	req := app.GenerateRequest{
		SellerElfPath: flags.sellerElf,
		SifPath:       flags.sif,
		BrandName:     flags.brandName,
		ProductType:   flags.productType,
		TopN:          flags.topN,
		Model:         flags.model,
	}

	var result *models.GenerationResult
	if single {
		result, err = service.GenerateSingle(cmd.Context(), req)
	} else {
		result, err = service.GenerateOrchestrated(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(flags.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return appErrors.Wrapf(err, "creating output directory %s", dir)
		}
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return appErrors.Wrap(err, "encoding result")
	}
	if err := os.WriteFile(flags.output, raw, 0o644); err != nil {
		return appErrors.Wrapf(err, "writing %s", flags.output)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Content generation completed in %.2f seconds\n", result.Metadata.DurationSeconds)
	fmt.Fprintf(cmd.OutOrStdout(), "Quality status: %s\n", result.QualityCheckResults.OverallStatus)
	fmt.Fprintf(cmd.OutOrStdout(), "Result written to %s\n", flags.output)
	return nil
}
