package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ishaan-vashist/cosmic-event/internal/adapter/neows"
	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/formatter"
	"github.com/ishaan-vashist/cosmic-event/internal/observability"
	"github.com/ishaan-vashist/cosmic-event/internal/service"
)

var (
	feedStart     string
	feedEnd       string
	feedHazardous bool
	feedSort      string
	feedFormat    string
)

type feedOutput struct {
	Dates        []domain.DateGroup `json:"dates"`
	TotalObjects int                `json:"total_objects"`
}

// feedCmd fetches and aggregates one feed window, then prints it and exits.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch a feed window once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		metrics := observability.NewMetrics()
		client := neows.NewClient(cfg.NeoWs.BaseURL, cfg.NeoWs.APIKey, cfg.NeoWs.Timeout, slog.Default(), metrics)
		svc := service.New(client, nil, slog.Default(), metrics, cfg.Feed.MaxRangeDays)

		groups, err := svc.Feed(context.Background(), service.FeedQuery{
			StartDate:     feedStart,
			EndDate:       feedEnd,
			HazardousOnly: feedHazardous,
			Sort:          feedSort,
		})
		if err != nil {
			return err
		}

		out := feedOutput{Dates: groups, TotalObjects: domain.TotalObjects(groups)}

		switch feedFormat {
		case "json":
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "table":
			fmt.Fprint(cmd.OutOrStdout(), formatter.FeedTable(groups))
		case "yaml":
			data, err := marshalYAML(out)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		default:
			return fmt.Errorf("unknown format: %s (want json, table, or yaml)", feedFormat)
		}
		return nil
	},
}

// marshalYAML goes through JSON first so the YAML output carries the same
// field names as the API responses.
func marshalYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().StringVar(&feedStart, "start", "", "window start date (YYYY-MM-DD, defaults to today)")
	feedCmd.Flags().StringVar(&feedEnd, "end", "", "window end date (YYYY-MM-DD, defaults to start+7)")
	feedCmd.Flags().BoolVar(&feedHazardous, "hazardous", false, "keep only potentially hazardous objects")
	feedCmd.Flags().StringVar(&feedSort, "sort", "", "sort policy: approach_asc, approach_desc, size_asc, size_desc")
	feedCmd.Flags().StringVarP(&feedFormat, "format", "f", "table", "output format: json, table, or yaml")
}
