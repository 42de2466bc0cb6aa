package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/recognizers/server/stats"
	"github.com/hrygo/recognizers/server/timezone"
	"github.com/hrygo/recognizers/store"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var (
		culture  string
		category string
		since    time.Duration
		limit    int
		prune    bool
		summary  bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or prune persisted recognitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			p, err := loadProfile(v)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openStore(ctx, p)
			if err != nil {
				return err
			}
			defer st.Close()

			if prune {
				if p.HistoryRetention <= 0 {
					return errors.New("history retention is not set")
				}
				removed, err := st.PruneRecognitions(ctx, p.HistoryRetention)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d recognitions older than %s\n", removed, p.HistoryRetention)
				return nil
			}

			if summary {
				snapshot, err := stats.NewCollector(st, nil).Refresh(ctx, 0)
				if err != nil {
					return err
				}
				if output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), snapshot)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), snapshot.Summary())
				return err
			}

			find := &store.FindRecognition{Limit: &limit}
			if culture != "" {
				find.Culture = &culture
			}
			if category != "" {
				find.Category = &category
			}
			if since > 0 {
				after := time.Now().Add(-since).Unix()
				find.CreatedTsAfter = &after
			}
			list, err := st.ListRecognitions(ctx, find)
			if err != nil {
				return err
			}
			loc, err := timezone.ParseTimezone(p.Timezone)
			if err != nil {
				return err
			}
			return printRecognitions(cmd.OutOrStdout(), output, list, loc)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&culture, "culture", "", "only this culture")
	flags.StringVar(&category, "category", "", "only this category (duration, datetime, currency)")
	flags.DurationVar(&since, "since", 0, "only recognitions newer than this")
	flags.IntVar(&limit, "limit", 20, "maximum rows")
	flags.BoolVar(&prune, "prune", false, "remove rows older than --history-retention instead of listing")
	flags.BoolVar(&summary, "stats", false, "print aggregate counts instead of listing")
	flags.StringVarP(&output, "output", "o", outputText, "output format, text or json")
	return cmd
}
