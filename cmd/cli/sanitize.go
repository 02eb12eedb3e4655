package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/caal-ai/templatize/pkg/domain"
	"github.com/caal-ai/templatize/pkg/sanitizer"
)

func NewSanitizeCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "sanitize <workflow.json>",
		Short: "Sanitize a local workflow export",
		Long: `Sanitize reads a workflow export, rejects it if it carries hardcoded
secrets, and otherwise writes the portable template with its variables
contract.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanitize(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

func runSanitize(inputPath, outputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return fmt.Errorf("%s is not a JSON object: %w", inputPath, err)
	}

	engine := sanitizer.NewEngine(sanitizer.EngineDependencies{Logger: log.Logger})

	result, err := engine.Sanitize(document)
	if err != nil {
		var detected *domain.SecretDetectedError
		if errors.As(err, &detected) {
			return fmt.Errorf("rejected: %s", strings.Join(detected.Categories, ", "))
		}
		return err
	}

	for _, warning := range result.Warnings {
		log.Warn().Msg(warning)
	}
	for _, origin := range result.PrivateURLs {
		log.Warn().Str("origin", origin).Msg("private-network origin left in the template, parameterize it before publishing")
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Println(string(encoded))
		return nil
	}

	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	log.Info().Str("path", outputPath).Msg("sanitized template written")
	return nil
}
