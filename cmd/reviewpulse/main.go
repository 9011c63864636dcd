package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/server"
	"github.com/reviewpulse/reviewpulse/internal/observability"
	"github.com/reviewpulse/reviewpulse/server/payments"
	"github.com/reviewpulse/reviewpulse/store"
	"github.com/reviewpulse/reviewpulse/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "reviewpulse",
	Short: "Review request dashboard and automation backend",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := profile.FromViper(viper.GetViper(), version)
		if err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		observability.SetupLogger(instanceProfile.Mode)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create datastore driver", "error", err)
			os.Exit(1)
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate datastore", "error", err)
			os.Exit(1)
		}

		var paymentsClient *payments.Client
		if instanceProfile.PaymentsAPIKey != "" {
			paymentsClient, err = payments.NewClient(instanceProfile.PaymentsAPIBaseURL, instanceProfile.PaymentsAPIKey)
			if err != nil {
				slog.Error("failed to create payments client", "error", err)
				os.Exit(1)
			}
		} else {
			slog.Info("no payments API key configured, billing endpoints disabled")
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, paymentsClient)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-signals
			slog.Info("shutting down", "signal", sig.String())
			s.Shutdown(ctx)
			cancel()
		}()

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		<-ctx.Done()
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "binding port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `datastore driver, one of "sqlite", "postgres", "webhook"`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")
	rootCmd.PersistentFlags().String("instance-url", "", "public URL of this instance")
	rootCmd.PersistentFlags().String("secret", "", "secret used to sign access tokens")
	rootCmd.PersistentFlags().String("webhook-url", "", "base URL of the webhook datastore backend")
	rootCmd.PersistentFlags().String("webhook-auth-header", "", "header name carrying the webhook backend credential")
	rootCmd.PersistentFlags().String("webhook-auth-token", "", "credential for the webhook backend")
	rootCmd.PersistentFlags().String("payments-api-base-url", "", "payment processor API base URL")
	rootCmd.PersistentFlags().String("payments-api-key", "", "payment processor API key")
	rootCmd.PersistentFlags().String("payments-signing-secret", "", "payment processor webhook signing secret")
	rootCmd.PersistentFlags().Duration("metrics-refresh-interval", 30*time.Second, "background refresh interval of dashboard metrics")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
