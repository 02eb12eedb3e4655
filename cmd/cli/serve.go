package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/caal-ai/templatize/internal/config"
	"github.com/caal-ai/templatize/internal/controllers"
	"github.com/caal-ai/templatize/internal/registry"
	"github.com/caal-ai/templatize/internal/server"
	"github.com/caal-ai/templatize/internal/version"
	"github.com/caal-ai/templatize/pkg/n8n"
	"github.com/caal-ai/templatize/pkg/sanitizer"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sanitization HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().Str("version", version.GetVersion()).Msg("Starting templatize service")

	engine := sanitizer.NewEngine(sanitizer.EngineDependencies{
		Logger: log.Logger,
	})

	var n8nClient *n8n.Client
	if cfg.N8nBaseURL != "" {
		n8nClient = n8n.NewClient(
			n8n.WithBaseURL(cfg.N8nBaseURL),
			n8n.WithAPIKey(cfg.N8nAPIKey),
		)
		log.Info().Str("n8n_url", cfg.N8nBaseURL).Msg("n8n workflow listing enabled")
	} else {
		log.Info().Msg("n8n not configured, only direct /sanitize is available")
	}

	cache := registry.NewCache(cfg.RegistryCachePath, log.Logger)

	controller := controllers.NewSanitizeController(controllers.SanitizeControllerDependencies{
		Engine:    engine,
		N8nClient: n8nClient,
		Cache:     cache,
	})

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		SanitizeController: controller,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	log.Info().Str("address", cfg.HTTPAddress).Msg("HTTP server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	return app.Shutdown()
}
