package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wolfman30/botica-chatbot/internal/app/bootstrap"
	appconfig "github.com/wolfman30/botica-chatbot/internal/config"
	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// chatEngine is the part of the dialogue engine the REPL needs.
type chatEngine interface {
	Handle(ctx context.Context, key, message string) (dialogue.Reply, error)
}

func newRootCmd() *cobra.Command {
	var envFile string
	var logLevel string

	root := &cobra.Command{
		Use:           "botica",
		Short:         "BOTica clinic chatbot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
				log.Printf("could not load %s: %v", envFile, err)
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	loadConfig := func() (*appconfig.Config, *logging.Logger) {
		cfg := appconfig.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return cfg, logging.New(cfg.LogLevel)
	}

	root.AddCommand(newServeCmd(loadConfig), newChatCmd(loadConfig))
	return root
}

func newServeCmd(loadConfig func() (*appconfig.Config, *logging.Logger)) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := loadConfig()
			if port != "" {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			app.RunBackground(ctx)
			return app.Serve(ctx, ":"+cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override PORT")
	return cmd
}

func newChatCmd(loadConfig func() (*appconfig.Config, *logging.Logger)) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the engine from the terminal with the configured collaborators",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := loadConfig()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return runChat(ctx, app.Engine, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runChat reads one message per line and prints each reply. "salir" or EOF
// ends the session.
func runChat(ctx context.Context, engine chatEngine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	key := ""
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "salir" {
			return nil
		}
		if line != "" {
			reply, err := engine.Handle(ctx, key, line)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			key = reply.SessionKey
			fmt.Fprintf(out, "%s\n\n", reply.Text)
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
