package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CartUC    *billing.CartUseCase
	DocUC     *billing.IssueDocumentUseCase
	PDFUC     *billing.PDFUseCase
	SeriesUC  *billing.SeriesUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health check (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	billingHandler := NewBillingHandler(deps.CartUC, deps.DocUC, deps.PDFUC)

	// Cotización de carritos (protegido)
	protected.Post("/billing/quote", billingHandler.Quote)

	// Documentos fiscales (protegido)
	documents := protected.Group("/documents")
	documents.Post("/", billingHandler.CreateDocument)
	documents.Get("/", billingHandler.List)
	documents.Get("/:id", billingHandler.GetByID)
	documents.Post("/:id/validate", billingHandler.Validate)
	documents.Post("/:id/issue", billingHandler.Issue)
	documents.Post("/:id/void", billingHandler.Void)
	documents.Get("/:id/pdf", billingHandler.DownloadPDF)

	// Series de numeración (protegido, solo admin)
	series := protected.Group("/series", RequireRole("admin"))
	seriesHandler := NewSeriesHandler(deps.SeriesUC)
	series.Post("/", seriesHandler.Create)
	series.Get("/", seriesHandler.List)
	series.Post("/:id/default", seriesHandler.SetDefault)
}
