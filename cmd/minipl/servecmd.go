package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/api"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP + WebSocket execution service",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		server := api.NewServer(cfg, logger, port)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		var shutdownOnce sync.Once
		shutdown := func() {
			shutdownOnce.Do(func() {
				fmt.Println("\nshutting down...")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
				}
			})
		}

		go func() {
			<-sigChan
			shutdown()
		}()

		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default: from config, usually 4777)")
}
