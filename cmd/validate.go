package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
)

var validateKind string

// validateCmd checks a saved NeoWs payload against the shape the service
// relies on, for inspecting what the upstream actually returned. A failure
// reports the path of the first violation.
var validateCmd = &cobra.Command{
	Use:   "validate <payload.json>",
	Short: "Check a saved NeoWs payload against the expected schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		switch validateKind {
		case "feed":
			payload, err := domain.ParseFeedPayload(data)
			if err != nil {
				return fmt.Errorf("feed payload: %w", err)
			}
			groups := domain.AggregateFeed(payload, domain.FeedOptions{})
			fmt.Fprintf(cmd.OutOrStdout(), "PASS: %d objects across %d dates (element_count %d)\n",
				domain.TotalObjects(groups), len(groups), payload.ElementCount)
		case "detail":
			raw, err := domain.ParseDetailPayload(data)
			if err != nil {
				return fmt.Errorf("detail payload: %w", err)
			}
			obj := domain.NormalizeDetail(*raw, false)
			fmt.Fprintf(cmd.OutOrStdout(), "PASS: object %s %q with %d approaches\n",
				obj.ID, obj.Name, obj.ApproachesCount)
		default:
			return fmt.Errorf("unknown kind: %s (want feed or detail)", validateKind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateKind, "kind", "feed", "payload kind: feed or detail")
}
