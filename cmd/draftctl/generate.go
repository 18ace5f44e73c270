package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/freedom_case_2/replydraft/internal/models"
)

var (
	generateType        string
	generateConcurrency int
	generateQuality     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <request.json>...",
	Short: "Draft replies for one or more generate request files",
	Long: `Each file holds one generate request ({"ticket": ..., "personalization": ...,
"response_type": ...}). Files are drafted concurrently and the results are
printed as a JSON array in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "", "Override response_type for every request")
	generateCmd.Flags().IntVarP(&generateConcurrency, "concurrency", "c", 4, "Maximum drafts in flight")
	generateCmd.Flags().BoolVar(&generateQuality, "quality", false, "Attach quality metrics to each draft")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	reqs, err := readRequests(args, generateType, generateQuality)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	results := a.Pipeline.GenerateBatch(cmd.Context(), reqs, generateConcurrency)
	if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func readRequests(paths []string, responseType string, withQuality bool) ([]models.GenerateRequest, error) {
	v := validator.New()
	reqs := make([]models.GenerateRequest, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var req models.GenerateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if responseType != "" {
			req.ResponseType = responseType
		}
		if withQuality {
			req.WithQuality = true
		}
		if err := v.Struct(req); err != nil {
			return nil, fmt.Errorf("invalid request in %s: %w", path, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
