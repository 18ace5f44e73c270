package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/service"
)

var (
	scoreTicketFile string
	scoreStyle      string
)

var scoreCmd = &cobra.Command{
	Use:   "score [reply.txt]",
	Short: "Score a reply text against the quality heuristics",
	Long:  `Reads the reply from the given file, or from stdin when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTicketFile, "ticket", "", "Ticket context JSON file used for accuracy and completeness")
	scoreCmd.Flags().StringVar(&scoreStyle, "style", "", "Preferred communication style (formal, casual, technical)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	var (
		content []byte
		err     error
	)
	if len(args) == 1 {
		content, err = os.ReadFile(args[0])
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	var ticket models.TicketContext
	if scoreTicketFile != "" {
		data, err := os.ReadFile(scoreTicketFile)
		if err != nil {
			return fmt.Errorf("failed to read ticket: %w", err)
		}
		if err := json.Unmarshal(data, &ticket); err != nil {
			return fmt.Errorf("failed to parse ticket: %w", err)
		}
	}
	p := models.PersonalizationData{}
	p.CustomerPreferences.CommunicationStyle = scoreStyle

	return writeJSON(cmd.OutOrStdout(), service.ScoreQuality(string(content), ticket, p))
}
