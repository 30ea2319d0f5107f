package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"TodoPlans/api"
	"TodoPlans/config"
	"TodoPlans/db"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "todoplans",
	Short:         "users and plan-limited todo lists over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves the api",
	RunE: func(cmd *cobra.Command, args []string) error {
		if p := config.LoadDotenv(); p != "" {
			logrus.WithField("path", p).Debug("loaded env file")
		}

		cfg, err := config.Load(viper.GetViper(), configFile)
		if err != nil {
			return err
		}
		cfg.ConfigureLogger(logrus.StandardLogger())

		store, err := db.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serveAPI(ctx, api.New(cfg, store, logrus.StandardLogger()))
	},
}

func serveAPI(ctx context.Context, a *api.API) error {
	server := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logrus.Info("signal received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("unable to shut down cleanly")
		}
	}()

	logrus.WithFields(logrus.Fields{"addr": a.Config.Addr, "store": a.Config.Store}).Info("serving api")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	<-done
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml)")

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "origins allowed by CORS")
	serveCmd.Flags().String("store", "memory", "store backend: memory or sqlite")
	serveCmd.Flags().String("log-level", "info", "log level")
	serveCmd.Flags().String("log-format", "text", "log format: text or json")
	viper.BindPFlags(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
