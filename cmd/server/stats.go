package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/activity"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, _ := cmd.Flags().GetString("learner")

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		svc := services.NewStatsService(
			sqlite.NewLearnerRepository(database.DB),
			sqlite.NewDeckRepository(database.DB),
			sqlite.NewCardRepository(database.DB),
			sqlite.NewActivityRepository(database.DB),
		)
		stats, err := svc.Summary(cmd.Context(), learnerID, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "decks:       %d\n", stats.TotalDecks)
		fmt.Fprintf(out, "cards:       %d (new %d, reviewing %d, learned %d)\n",
			stats.TotalCards, stats.NewCards, stats.ReviewingCards, stats.LearnedCards)
		fmt.Fprintf(out, "due now:     %d\n", stats.CardsDue)
		fmt.Fprintf(out, "study days:  %d\n", stats.StudyDays)
		fmt.Fprintf(out, "streak:      %d (max %d)\n", stats.CurrentStreak, activity.MaxStreakDays)
		if stats.LastStudyDate != nil {
			fmt.Fprintf(out, "last study:  %s\n", stats.LastStudyDate.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("learner", "", "Learner ID")
	_ = statsCmd.MarkFlagRequired("learner")
}
