// -- cmd/generate.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/api/schemas"
	"github.com/promoshot/promoshot-cli/internal/artifact"
	"github.com/promoshot/promoshot-cli/internal/browser"
	"github.com/promoshot/promoshot-cli/internal/chat"
	"github.com/promoshot/promoshot-cli/internal/config"
	"github.com/promoshot/promoshot-cli/internal/observability"
	"github.com/promoshot/promoshot-cli/internal/prompt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// generateOptions collects the per-run inputs from flags and env.
type generateOptions struct {
	email      string
	password   string
	cookieFile string
	imagePath  string
	resultPath string

	request schemas.MarketingRequest
}

// newGenerateCmd creates and configures the `generate` command.
func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates a marketing image from a product photo and a brief",
		Long: `Generate opens a browser session against the chat site, restores or
establishes a login, uploads the product image with a marketing prompt,
and saves the generated image. The outcome is printed to stdout as a
single JSON object.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags that override config file and env values.
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("output.results_dir", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			return viper.BindPFlag("chat.model", cmd.Flags().Lookup("model"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	flags := generateCmd.Flags()
	flags.StringVar(&opts.email, "email", "", "login email (falls back to OPENAI_EMAIL)")
	flags.StringVar(&opts.password, "password", "", "login password (falls back to OPENAI_PASSWORD)")
	flags.StringVar(&opts.cookieFile, "cookies", "", "path to a JSON cookie export for session restore")
	flags.StringVar(&opts.imagePath, "image", "", "path to the product image to transform")
	flags.StringVar(&opts.resultPath, "result", "", "also write the result JSON to this file")

	flags.StringVar(&opts.request.ProductName, "product", "", "product name")
	flags.StringVar(&opts.request.Slogan, "slogan", "", "marketing slogan")
	flags.StringVar(&opts.request.Price, "price", "", "price to feature (optional)")
	flags.StringVar(&opts.request.Platform, "platform", "", "target format, e.g. 'Instagram post' (optional)")
	flags.StringVar(&opts.request.Audience, "audience", "", "target audience (optional)")
	flags.StringVar(&opts.request.BrandColors, "colors", "", "brand colors to use (optional)")

	flags.Bool("headless", true, "run the browser headless")
	flags.String("output", "", "directory for generated images")
	flags.String("model", "", "model to select in the chat UI")

	_ = generateCmd.MarkFlagRequired("image")
	_ = generateCmd.MarkFlagRequired("product")
	_ = generateCmd.MarkFlagRequired("slogan")

	return generateCmd
}

// runGenerate is the full run: validate inputs, launch the browser,
// establish the session, drive generation, persist the artifact. The
// result JSON always lands on stdout, success or not; the returned
// error only decides the exit status.
func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return emitFailure(cmd, opts, err)
	}

	if err := resolveInputs(opts); err != nil {
		return emitFailure(cmd, opts, err)
	}

	creds := schemas.Credentials{Email: opts.email, Password: opts.password}
	if opts.cookieFile == "" && !creds.Complete() {
		return emitFailure(cmd, opts, chat.ErrMissingCredentials)
	}

	manager := browser.NewManager(cfg, logger)
	session, err := manager.Start(ctx)
	if err != nil {
		return emitFailure(cmd, opts, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser shutdown reported an error", zap.Error(err))
		}
	}()

	establisher := chat.NewEstablisher(session, cfg.Chat, logger)
	if err := establisher.Establish(ctx, creds, opts.cookieFile); err != nil {
		return emitFailure(cmd, opts, err)
	}

	driver := chat.NewDriver(session, cfg.Chat, logger)
	candidate, err := driver.GenerateImage(ctx, opts.imagePath, prompt.Build(opts.request))
	if err != nil {
		return emitFailure(cmd, opts, err)
	}
	if candidate == nil {
		return emitFailure(cmd, opts, fmt.Errorf("no generated image appeared within the time limit"))
	}

	persister := artifact.NewPersister(cfg.Output.ResultsDir, nil, logger)
	result := persister.Persist(ctx, candidate.Source)

	if err := emitResult(cmd, opts, result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}
	return nil
}

// resolveInputs expands paths, applies env fallbacks, and verifies the
// source image exists before a browser is ever launched.
func resolveInputs(opts *generateOptions) error {
	if opts.email == "" {
		opts.email = os.Getenv("OPENAI_EMAIL")
	}
	if opts.password == "" {
		opts.password = os.Getenv("OPENAI_PASSWORD")
	}

	var err error
	if opts.cookieFile != "" {
		if opts.cookieFile, err = homedir.Expand(opts.cookieFile); err != nil {
			return fmt.Errorf("invalid cookie path: %w", err)
		}
	}
	if opts.imagePath, err = homedir.Expand(opts.imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	info, err := os.Stat(opts.imagePath)
	if err != nil {
		return fmt.Errorf("product image not readable: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("product image path is a directory: %s", opts.imagePath)
	}
	return nil
}

// emitResult writes the run result as JSON to stdout and, when asked,
// to a result file.
func emitResult(cmd *cobra.Command, opts *generateOptions, result *schemas.GenerationResult) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if opts.resultPath != "" {
		if err := os.WriteFile(opts.resultPath, append(encoded, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write result file %s: %w", opts.resultPath, err)
		}
	}
	return nil
}

// emitFailure prints a failed result and passes the error through so
// the exit status reflects the failure class.
func emitFailure(cmd *cobra.Command, opts *generateOptions, cause error) error {
	if err := emitResult(cmd, opts, schemas.Failure(cause.Error())); err != nil {
		observability.GetLogger().Warn("Could not emit failure result", zap.Error(err))
	}
	return cause
}
