// Package catalog provides the phone catalog bounded context module.
package catalog

import (
	"mobiletrade_backend/internal/adapters/storage"
	"mobiletrade_backend/internal/catalog/handler"
	"mobiletrade_backend/internal/catalog/repository"
	"mobiletrade_backend/internal/catalog/service"
	"mobiletrade_backend/internal/events"
	apphttp "mobiletrade_backend/internal/http"
	"mobiletrade_backend/platform/logger"
	"mobiletrade_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module. The store is chosen
// by the caller so the same module runs against Postgres or Firestore.
func NewModule(store repository.Store, objects storage.StorageService, imageBucket string, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, objects, imageBucket, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints
	ctx.V1.GET("/catalog", m.handler.GetCatalog)
	ctx.V1.GET("/catalog/phones/:brand/:series/:model", m.handler.GetPhoneDetails)
	ctx.V1.GET("/catalog/models/:modelKey", m.handler.ResolveModel)

	// Admin endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.PUT("", m.handler.ReplaceCatalog)
	adminGroup.POST("/images/presign", m.handler.PresignImageUpload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
