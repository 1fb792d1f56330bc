package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spencer-p/coastdash/pkg/beaches"
	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/dashboard"
)

func newTidesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tides",
		Short: "Print the approximate tide right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			snap, err := coastal.ComputeTideSnapshot(time.Now(), s.schedule)
			if err != nil {
				return err
			}
			return dashboard.WriteTideText(cmd.OutOrStdout(), snap)
		},
	}
}

func newSwimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swim",
		Short: "Rank today's swim times",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := coastal.RankSwimWindows(coastal.DefaultSwimWindows())
			out := cmd.OutOrStdout()
			top, ok := plan.Top()
			if !ok {
				fmt.Fprintln(out, "No swim times available")
				return nil
			}
			fmt.Fprintf(out, "Top choice: %s (%s)\n", top.Time, top.Period)
			for i, sw := range plan.Windows {
				fmt.Fprintf(out, "%d. %-8s %-12s %s\n", i+1, sw.Time, sw.Period, renderScore(sw.Score))
				fmt.Fprintf(out, "   %s\n", sw.Reason)
			}
			return nil
		},
	}
}

func newBeachesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "beaches",
		Short: "List nearby beaches, closest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, b := range beaches.Nearby(beaches.Default()) {
				shown, more := beaches.Highlights(b.Features, 3)
				fmt.Fprintf(out, "%-16s %4.1f mi %s %.1f  %s",
					b.Name, b.Distance, starStyle.Render(dashboard.Stars(b.Rating)), b.Rating, b.Description)
				fmt.Fprintf(out, "\n  %s", strings.Join(shown, ", "))
				if more > 0 {
					fmt.Fprintf(out, " +%d more", more)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
