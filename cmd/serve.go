package cmd

import (
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/httpserver"
	httpdeps "github.com/xolan/logbook/internal/httpserver/deps"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the entries over HTTP",
	Long: `Serve a JSON API over the configured backend until interrupted.

  GET    /healthz
  GET    /api/entries?from=&to=     entries intersecting [from, to), clipped
  POST   /api/entries               {"start","end","category","description"}
  DELETE /api/entries/{start}       start as RFC 3339
  GET    /api/history

The address comes from [server] listen in the config unless --listen is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := deps.Config.Server
		if serveListen != "" {
			cfg.Listen = serveListen
		}

		l, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
		}

		srv := httpserver.New(cfg, httpdeps.Deps{
			Entry:     deps.Services.Entry,
			Logger:    deps.Logger(),
			StartTime: time.Now(),
			Version:   rootCmd.Version,
			GoVersion: runtime.Version(),
		})
		_, _ = fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", l.Addr())
		return srv.Run(cmd.Context(), l)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (host:port)")
	rootCmd.AddCommand(serveCmd)
}
