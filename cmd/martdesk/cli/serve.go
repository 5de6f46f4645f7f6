package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/martdesk/martdesk/internal/gate"
	"github.com/martdesk/martdesk/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MartDesk API server",
		Long:  "Start the HTTP server that backs the admin console: session gate endpoints plus directory management.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("init slot store: %w", err)
	}
	defer st.Close()
	logger.Info("slot store initialized", "path", resolveDataDir())

	cfg := server.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	if origins := viper.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if limit := viper.GetInt("server.login_rate_limit"); limit > 0 {
		cfg.LoginRateLimit = limit
	}
	if timeout := viper.GetDuration("server.shutdown_timeout"); timeout > 0 {
		cfg.ShutdownTimeout = timeout
	}

	srv := server.New(cfg, st, gate.New(st), logger)
	return srv.ListenAndServe()
}
