package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/internal/version"
	"github.com/corrnet/corrnet/server"
	"github.com/corrnet/corrnet/store"
	"github.com/corrnet/corrnet/store/db"
)

const (
	greetingBanner = `CorrNet - correlation network dashboard`
)

var rootCmd = &cobra.Command{
	Use:   "corrnet",
	Short: "A correlation network dashboard for your portfolio",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:            viper.GetString("mode"),
			Addr:            viper.GetString("addr"),
			Port:            viper.GetInt("port"),
			Data:            viper.GetString("data"),
			Driver:          viper.GetString("driver"),
			DSN:             viper.GetString("dsn"),
			InstanceURL:     viper.GetString("instance-url"),
			JWTSecret:       viper.GetString("jwt-secret"),
			RefreshInterval: viper.GetInt("refresh-interval"),
			Version:         version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		if instanceProfile.JWTSecret == "" {
			if instanceProfile.Mode == "prod" {
				instanceProfile.JWTSecret = uuid.NewString()
			} else {
				instanceProfile.JWTSecret = "corrnet"
			}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		fmt.Printf("%s\nversion %s, mode %s, listening on %s:%d\n",
			greetingBanner, instanceProfile.Version, instanceProfile.Mode,
			instanceProfile.Addr, instanceProfile.Port)

		if err := s.Start(ctx); err != nil {
			slog.Error("server exited with error", "error", err)
		}
		s.Shutdown(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8230, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("instance-url", "", "public url of this instance")
	rootCmd.PersistentFlags().String("jwt-secret", "", "secret used to sign access tokens")
	rootCmd.PersistentFlags().Int("refresh-interval", 30, "background data refresh cadence in minutes, 0 disables")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url", "jwt-secret", "refresh-interval"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("corrnet")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
