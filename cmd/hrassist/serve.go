package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillsys/hrassist/pkg/api"
	"github.com/skillsys/hrassist/pkg/config"
	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/presenter"
)

var serveCmd = withTracing(&cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HR assistant HTTP server. It serves the skill authoring API,
the HR directory, CV parsing and the streaming chat endpoint.

CV parsing and chat are only available when an Anthropic API key is configured.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), cfg)
	},
})

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind the server to")
	serveCmd.Flags().Int("port", 3000, "Port to bind the server to")
	serveCmd.Flags().StringSlice("allowed-origin", []string{"*"}, "Allowed CORS origins, exact or glob")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.allowed_origins", serveCmd.Flags().Lookup("allowed-origin"))
}

// buildServices wires every backend the server routes to
func buildServices(ctx context.Context, c *config.Config) (api.Services, error) {
	svc, err := newSkillService(ctx, c)
	if err != nil {
		return api.Services{}, err
	}

	conn, err := openDatabase(ctx, c)
	if err != nil {
		return api.Services{}, err
	}
	store := hr.NewStore(conn)

	services := api.Services{
		Skills:    svc,
		Directory: store,
		Closers:   []io.Closer{conn},
	}

	client, ok := anthropicClient(c)
	if !ok {
		logger.G(ctx).Warn("no Anthropic API key configured, chat and CV parsing are disabled")
		return services, nil
	}
	services.CV = newCVParser(&client, store, c)
	services.Chat = newChatService(client, conn, svc, store, c)

	return services, nil
}

func runServe(ctx context.Context, c *config.Config) error {
	services, err := buildServices(ctx, c)
	if err != nil {
		return err
	}

	server, err := api.NewServer(&api.ServerConfig{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		AllowedOrigins: c.Server.AllowedOrigins,
	}, services)
	if err != nil {
		for _, closer := range services.Closers {
			closer.Close()
		}
		return err
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			logger.G(ctx).WithError(closeErr).Error("failed to close server")
		}
	}()

	presenter.Success(fmt.Sprintf("HR assistant listening on http://%s:%d", c.Server.Host, c.Server.Port))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := server.Start(ctx); err != nil {
		return err
	}

	presenter.Info("Server stopped")
	return nil
}
