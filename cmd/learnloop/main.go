package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/db"
)

const greetingBanner = `Welcome to LearnLoop!`

var rootCmd = &cobra.Command{
	Use:   "learnloop",
	Short: "The course marketplace backend",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile := &profile.Profile{
			Mode:           viper.GetString("mode"),
			Addr:           viper.GetString("addr"),
			Port:           viper.GetInt("port"),
			Data:           viper.GetString("data"),
			Driver:         viper.GetString("driver"),
			DSN:            viper.GetString("dsn"),
			InstanceURL:    viper.GetString("instance-url"),
			RedisAddr:      viper.GetString("redis-addr"),
			RedisPassword:  viper.GetString("redis-password"),
			RedisDB:        viper.GetInt("redis-db"),
			BatchChunkSize: viper.GetInt("batch-chunk-size"),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create database driver", "error", err)
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			slog.Info("received signal, shutting down", "signal", sig.String())
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Println(greetingBanner)
		if err := s.Start(ctx); err != nil {
			if err.Error() != "http: Server closed" {
				slog.Error("failed to start server", "error", err)
			}
		}

		<-ctx.Done()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (for postgres)")
	rootCmd.PersistentFlags().String("instance-url", "", "public URL of this instance")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis address; empty uses the in-memory shared cache")
	rootCmd.PersistentFlags().String("redis-password", "", "redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "redis database index")
	rootCmd.PersistentFlags().Int("batch-chunk-size", 10, "maximum IDs per batched store query")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("learnloop")
	viper.AutomaticEnv()
}
