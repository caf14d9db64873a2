// Package tradein provides the trade-in bounded context module: quoting,
// listing submission, inquiries and FAQs.
package tradein

import (
	"mobiletrade_backend/internal/events"
	apphttp "mobiletrade_backend/internal/http"
	"mobiletrade_backend/internal/tradein/handler"
	"mobiletrade_backend/internal/tradein/repository"
	"mobiletrade_backend/internal/tradein/service"
	"mobiletrade_backend/platform/logger"
	"mobiletrade_backend/platform/validator"
)

// Module is the trade-in bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the trade-in module.
func NewModule(catalog service.CatalogReader, store repository.Store, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(catalog, store, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tradein"
}

// Service returns the service layer for use by workers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts trade-in routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public endpoints; submissions get the stricter per-IP limiter
	public := ctx.V1.Group("/tradein")
	public.POST("/quote", ctx.SubmitRateLimiter.RateLimit(), m.handler.Quote)
	public.POST("/listings", ctx.SubmitRateLimiter.RateLimit(), m.handler.SubmitListing)
	public.GET("/listings", m.handler.ListListings)
	public.GET("/listings/:id", m.handler.GetListingDetails)
	public.GET("/faqs", m.handler.ListFAQs)
	public.GET("/faqs/:id", m.handler.GetFAQ)

	// Authenticated buyer endpoints
	protected := ctx.Protected.Group("/tradein")
	protected.POST("/inquiries", m.handler.SubmitInquiry)
	protected.GET("/inquiries/my", m.handler.ListMyInquiries)

	// Admin endpoints
	admin := ctx.Admin.Group("/tradein")
	admin.PATCH("/listings/:id/status", m.handler.UpdateListingStatus)
	admin.GET("/listings/:id/inquiries", m.handler.ListListingInquiries)
	admin.POST("/faqs", m.handler.CreateFAQ)
	admin.PUT("/faqs/:id", m.handler.UpdateFAQ)
	admin.DELETE("/faqs/:id", m.handler.DeleteFAQ)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
