package billing

import (
	"context"
	"fmt"

	"github.com/smartkubik/facturacion-api/internal/domain"
)

// PDFUseCase genera la representación gráfica de un documento fiscal emitido.
// Solo documentos con consecutivo asignado tienen representación imprimible.
type PDFUseCase struct {
	docUC     *IssueDocumentUseCase
	generator DocumentPDFGenerator
	issuer    IssuerInfo
}

// NewPDFUseCase construye el caso de uso con los datos del emisor.
func NewPDFUseCase(docUC *IssueDocumentUseCase, generator DocumentPDFGenerator, issuer IssuerInfo) *PDFUseCase {
	return &PDFUseCase{docUC: docUC, generator: generator, issuer: issuer}
}

// DownloadPDF genera el PDF del documento.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien
//   - domain.ErrNotFound / ErrForbidden según pertenencia
//   - domain.ErrConflict si el documento aún no está emitido
func (uc *PDFUseCase) DownloadPDF(ctx context.Context, companyID, docID string) ([]byte, string, error) {
	doc, err := uc.docUC.Get(ctx, companyID, docID)
	if err != nil {
		return nil, "", err
	}
	if !doc.IsIssued() {
		return nil, "", fmt.Errorf("%w: el documento no está emitido", domain.ErrConflict)
	}
	data, err := uc.generator.Generate(ctx, doc, uc.issuer)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("%s.pdf", doc.FullNumber), nil
}
