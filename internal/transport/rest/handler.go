package rest

import (
	"context"
	"time"

	"product-engine/internal/domain"
	"product-engine/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ProductCatalog interface {
	Get(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, code string) error
}

type AgreementCreator interface {
	CreateAgreement(ctx context.Context, cmd service.CreateAgreementCommand) (int64, error)
}

type RegisterExporter interface {
	StartAgreementsExport(ctx context.Context, selected []string) (string, error)
}

type ExportReader interface {
	GetExports(ctx context.Context) ([]service.ExportStatus, error)
	GetExport(ctx context.Context, exportID string) (*service.ExportStatus, error)
}

type Handler struct {
	products   ProductCatalog
	agreements AgreementCreator
	exporter   RegisterExporter
	exportList ExportReader
}

func NewHandler(products ProductCatalog, agreements AgreementCreator, exporter RegisterExporter, exportList ExportReader) *Handler {
	return &Handler{
		products:   products,
		agreements: agreements,
		exporter:   exporter,
		exportList: exportList,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/product/{product_code}", h.getProduct)
	r.Get("/product", h.listProducts)
	r.Post("/product", h.createProduct)
	r.Delete("/product/{product_code}", h.deleteProduct)

	r.Post("/agreement", h.createAgreement)

	r.Route("/export", func(r chi.Router) {
		r.Get("/", h.listExports)
		r.Get("/{export_id}", h.getExport)
		r.Post("/agreements", h.exportAgreements)
	})

	return r
}
