package container

import (
	"net/http"

	"cable-inspector/config"
	app "cable-inspector/internal/application"
	"cable-inspector/internal/domain/port"
	"cable-inspector/internal/infrastructure/encoding"
	"cable-inspector/internal/infrastructure/report"
	"cable-inspector/internal/infrastructure/storage"
	"cable-inspector/internal/infrastructure/vision"
	"cable-inspector/internal/logger"
	"cable-inspector/internal/transport"
)

type Container struct {
	Config            *config.Config
	Sessions          *storage.MemorySessionRepository
	Store             port.BlobStore
	SessionService    *app.SessionService
	InspectionService *app.InspectionService
}

// New собирает зависимости из конфигурации
func New(cfg *config.Config) (*Container, error) {
	logger.SetLevel(cfg.LogLevel)

	var remote port.BlobStore
	if cfg.AzureEnabled() {
		azure, err := storage.NewAzureStore(cfg.AzureAccount, cfg.AzureKey)
		if err != nil {
			return nil, err
		}
		remote = azure
	}
	store := storage.NewRouterStore(storage.NewFileStore(cfg.OutputDir), remote)

	sessions := storage.NewMemorySessionRepository()
	sessionService := app.NewSessionService(sessions)
	inspectionService := app.NewInspectionService(
		sessionService,
		vision.NewGoCVAnalyzer(cfg.Params),
		encoding.NewCodec(),
		store,
		report.NewTextDescriber(),
	)

	return &Container{
		Config:            cfg,
		Sessions:          sessions,
		Store:             store,
		SessionService:    sessionService,
		InspectionService: inspectionService,
	}, nil
}

// Handler возвращает HTTP-обработчик
func (c *Container) Handler() http.Handler {
	return transport.NewHandler(c.InspectionService, c.Config)
}
