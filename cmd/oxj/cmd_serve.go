package main

import (
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/TheDevMinerTV/oxidized-java/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr        string
		maxUpload   int64
		readTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the class file decoder over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && a.cfg.ServerAddress != "" {
				addr = a.cfg.ServerAddress
			}
			if !cmd.Flags().Changed("max-upload") && a.cfg.MaxUploadBytes > 0 {
				maxUpload = a.cfg.MaxUploadBytes
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			e := echo.New()
			e.Use(middleware.Recover())
			server.New(maxUpload).Register(e)

			log.Noticef("listening on %s", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "largest accepted class file in bytes")
	cmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "read header timeout")

	return cmd
}
