package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

var _ repository.FiscalDocumentRepository = (*FiscalDocumentRepo)(nil)

// FiscalDocumentRepo implementación de FiscalDocumentRepository (usable con
// pool o tx). Las líneas, los totales, el cliente y el método de pago se
// guardan como JSONB: son snapshots congelados que solo se leen y escriben
// completos, nunca se consultan por campo.
type FiscalDocumentRepo struct {
	q Querier
}

// NewFiscalDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalDocumentRepository(q Querier) *FiscalDocumentRepo {
	return &FiscalDocumentRepo{q: q}
}

const documentColumns = `
	id, company_id, type, series_id, number, full_number, control_number, status,
	customer, items, totals, payment_method, currency, exchange_rate,
	order_id, original_document_id, created_at, updated_at, issued_at, voided_at`

// Create persiste el documento completo.
func (r *FiscalDocumentRepo) Create(ctx context.Context, doc *entity.FiscalDocument) error {
	customer, items, totals, paymentMethod, err := marshalSnapshots(doc)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO fiscal_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(ctx, query,
		doc.ID, doc.CompanyID, doc.Type, doc.SeriesID, doc.Number,
		nullIfEmpty(doc.FullNumber), nullIfEmpty(doc.ControlNumber), doc.Status,
		customer, items, totals, paymentMethod, doc.Currency, doc.ExchangeRate,
		nullIfEmpty(doc.OrderID), nullIfEmpty(doc.OriginalDocumentID),
		doc.CreatedAt, doc.UpdatedAt, doc.IssuedAt, doc.VoidedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento duplicado: %w", err)
		}
		return fmt.Errorf("insert fiscal document: %w", err)
	}
	return nil
}

// Update reescribe el documento completo.
func (r *FiscalDocumentRepo) Update(ctx context.Context, doc *entity.FiscalDocument) error {
	customer, items, totals, paymentMethod, err := marshalSnapshots(doc)
	if err != nil {
		return err
	}
	query := `
		UPDATE fiscal_documents
		SET number = $2, full_number = $3, control_number = $4, status = $5,
		    customer = $6, items = $7, totals = $8, payment_method = $9,
		    currency = $10, exchange_rate = $11, updated_at = $12,
		    issued_at = $13, voided_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		doc.ID, doc.Number, nullIfEmpty(doc.FullNumber), nullIfEmpty(doc.ControlNumber), doc.Status,
		customer, items, totals, paymentMethod,
		doc.Currency, doc.ExchangeRate, doc.UpdatedAt, doc.IssuedAt, doc.VoidedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update fiscal document: %s no encontrado", doc.ID)
	}
	return nil
}

// GetByID obtiene el documento por ID, nil si no existe.
func (r *FiscalDocumentRepo) GetByID(ctx context.Context, id string) (*entity.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fiscal_documents WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate lee el documento bloqueando la fila. Solo tiene sentido con
// un Querier transaccional; el lock se sostiene hasta el commit.
func (r *FiscalDocumentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fiscal_documents WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByOrderID busca la factura no anulada asociada a la orden.
func (r *FiscalDocumentRepo) GetByOrderID(ctx context.Context, companyID, orderID string) (*entity.FiscalDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM fiscal_documents
		WHERE company_id = $1 AND order_id = $2 AND type = $3 AND status <> $4
		ORDER BY created_at DESC
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, orderID, entity.DocTypeInvoice, entity.DocStatusVoid))
}

// ListByCompany lista documentos de la empresa, más recientes primero.
func (r *FiscalDocumentRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.FiscalDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM fiscal_documents
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fiscal documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func (r *FiscalDocumentRepo) scanOne(row pgx.Row) (*entity.FiscalDocument, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (*entity.FiscalDocument, error) {
	var doc entity.FiscalDocument
	var fullNumber, controlNumber, orderID, originalID *string
	var customer, items, totals []byte
	var paymentMethod []byte
	err := row.Scan(
		&doc.ID, &doc.CompanyID, &doc.Type, &doc.SeriesID, &doc.Number,
		&fullNumber, &controlNumber, &doc.Status,
		&customer, &items, &totals, &paymentMethod, &doc.Currency, &doc.ExchangeRate,
		&orderID, &originalID, &doc.CreatedAt, &doc.UpdatedAt, &doc.IssuedAt, &doc.VoidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan fiscal document: %w", err)
	}
	doc.FullNumber = derefStr(fullNumber)
	doc.ControlNumber = derefStr(controlNumber)
	doc.OrderID = derefStr(orderID)
	doc.OriginalDocumentID = derefStr(originalID)

	if err := json.Unmarshal(customer, &doc.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(items, &doc.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(totals, &doc.Totals); err != nil {
		return nil, fmt.Errorf("unmarshal totals: %w", err)
	}
	if len(paymentMethod) > 0 {
		doc.PaymentMethod = &entity.PaymentMethod{}
		if err := json.Unmarshal(paymentMethod, doc.PaymentMethod); err != nil {
			return nil, fmt.Errorf("unmarshal payment method: %w", err)
		}
	}
	return &doc, nil
}

func marshalSnapshots(doc *entity.FiscalDocument) (customer, items, totals, paymentMethod []byte, err error) {
	if customer, err = json.Marshal(doc.Customer); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal customer: %w", err)
	}
	if items, err = json.Marshal(doc.Items); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if totals, err = json.Marshal(doc.Totals); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal totals: %w", err)
	}
	if doc.PaymentMethod != nil {
		if paymentMethod, err = json.Marshal(doc.PaymentMethod); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal payment method: %w", err)
		}
	}
	return customer, items, totals, paymentMethod, nil
}
