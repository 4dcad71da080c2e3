package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/application/dto"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

// BillingHandler maneja cotización de carritos y ciclo de vida de documentos
// fiscales (protegido).
type BillingHandler struct {
	cartUC *billing.CartUseCase
	docUC  *billing.IssueDocumentUseCase
	pdfUC  *billing.PDFUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(cartUC *billing.CartUseCase, docUC *billing.IssueDocumentUseCase, pdfUC *billing.PDFUseCase) *BillingHandler {
	return &BillingHandler{cartUC: cartUC, docUC: docUC, pdfUC: pdfUC}
}

// Quote cotiza los totales de un carrito sin persistir nada. Cada línea se
// re-resuelve contra el catálogo: los precios del cliente no se aceptan.
// POST /api/billing/quote
func (h *BillingHandler) Quote(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cart, err := h.cartUC.BuildCart(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	totals, err := h.cartUC.GetTotals(c.Context(), cart)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": cart.Items, "totals": totals})
}

// CreateDocument crea un borrador de documento fiscal desde un carrito.
// POST /api/documents
func (h *BillingHandler) CreateDocument(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cart, err := h.cartUC.BuildCart(c.Context(), companyID, in.Cart)
	if err != nil {
		return respondError(c, err)
	}
	customer := entity.CustomerSnapshot{
		LegalName: in.Customer.LegalName,
		TaxID:     in.Customer.TaxID,
		Address:   in.Customer.Address,
		Email:     in.Customer.Email,
		Phone:     in.Customer.Phone,
	}
	doc, err := h.docUC.CreateDraft(c.Context(), cart, customer, billing.DraftOptions{
		Type:               in.Type,
		SeriesID:           in.SeriesID,
		OrderID:            in.OrderID,
		OriginalDocumentID: in.OriginalDocumentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDocumentResponse(doc))
}

// Validate re-verifica los totales del borrador y lo marca validado.
// POST /api/documents/:id/validate
func (h *BillingHandler) Validate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.docUC.Validate(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// Issue asigna el consecutivo fiscal y emite el documento.
// POST /api/documents/:id/issue
func (h *BillingHandler) Issue(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.docUC.Issue(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// Void anula un borrador o documento validado.
// POST /api/documents/:id/void
func (h *BillingHandler) Void(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.docUC.Void(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// GetByID obtiene el documento completo.
// GET /api/documents/:id
func (h *BillingHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.docUC.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// List lista los documentos de la empresa (paginado).
// GET /api/documents?limit=&offset=
func (h *BillingHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	docs, err := h.docUC.List(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.NewDocumentResponse(d))
	}
	return c.JSON(out)
}

// DownloadPDF descarga la representación gráfica de un documento emitido.
// GET /api/documents/:id/pdf
func (h *BillingHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	data, filename, err := h.pdfUC.DownloadPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
