/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/myflix/movieapi/config"
	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/mq"
	"github.com/myflix/movieapi/internal/services"
	"github.com/spf13/cobra"
)

var tailChannel string

// eventsCmd groups commands that work with published account and catalog events.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect account and catalog events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log events from a channel until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(cfg.Log.Level, cfg.Log.Format)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer queue.Close()

		logger.Info(ctx, "tailing events", "channel", tailChannel, "backend", cfg.MQ.Backend)
		err = queue.Subscribe(ctx, tailChannel, func(ctx context.Context, msg mq.Message) error {
			var event services.Event
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				logger.Warn(ctx, "undecodable event", "id", msg.ID, "error", err)
				return nil
			}
			logger.Info(ctx, "event",
				"id", msg.ID,
				"type", event.Type,
				"user_id", event.UserID,
				"username", event.Username,
				"movie_id", event.MovieID,
				"movie_title", event.MovieTitle,
				"occurred_at", event.OccurredAt,
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe %s: %w", tailChannel, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsTailCmd.Flags().StringVar(&tailChannel, "channel", services.UsersChannel, "channel to subscribe to")
	eventsCmd.AddCommand(eventsTailCmd)
}
