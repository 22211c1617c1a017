package bootstrap

import (
	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	"cv-analyzer-backend/internal/contentunderstanding"
	"cv-analyzer-backend/internal/shared/config"
	"cv-analyzer-backend/internal/shared/server"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Client          *contentunderstanding.Client
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Router          *gin.Engine
}

// Build wires the analysis client, service, handler, and router from the
// given configuration. Client options (fake sleep, clock, HTTP client) flow
// through so tests can build a fully wired app without real delays.
func Build(cfg config.Config, clientOpts ...contentunderstanding.Option) (*App, error) {
	client, err := contentunderstanding.New(cfg.Endpoint, cfg.APIVersion, cfg.Credential, clientOpts...)
	if err != nil {
		return nil, err
	}

	svc := analyses.NewService(client, cfg.AnalyzerID, cfg.PollTimeout, cfg.PollInterval)
	handler := analyses.NewHandler(svc)

	return &App{
		Config:          cfg,
		Client:          client,
		AnalysesService: svc,
		AnalysisHandler: handler,
		Router:          server.NewRouter(cfg, handler),
	}, nil
}
