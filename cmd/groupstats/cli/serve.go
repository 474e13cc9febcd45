package cli

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupstats/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve group statistics as JSON over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if serveAddr != "" {
			cfg.UpdateFrom(config.Config{Addr: serveAddr})
		}
		return application.Serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
