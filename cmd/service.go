package cmd

import (
	"net"
	"net/http"

	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("spawning...")

			rtm, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			logger.Debug("creating HTTP server...")
			mux := http.NewServeMux()
			mux.Handle(config.Service.MetricsPath, promhttp.Handler())
			mux.HandleFunc(config.Service.Path, rtm.ServeHTTP)

			s := &http.Server{
				Handler:      mux,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "metrics", config.Service.MetricsPath, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	return cmd
}
