package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrsinham/radreport/internal/config"
	"github.com/mrsinham/radreport/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and report compilation over HTTP",
	Long: `Serve loads the catalog once and exposes it over a JSON API:

  GET  /healthz
  GET  /api/pathologies?q=term
  GET  /api/pathologies/{name}
  POST /api/reports

Every report request is compiled in its own session. A catalog that fails to
load is logged and the server starts with an empty catalog.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr, :8080)")
	_ = viper.BindPFlag(config.KeyServerAddr, serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the error is already logged; an empty catalog still serves health checks
	cat, _ := loadCatalog(ctx, cfg, log)

	h := server.NewHandler(cat, log, cfg.ExportMeta())
	return server.New(cfg.Server.Addr, h, log).ListenAndServe(ctx)
}
