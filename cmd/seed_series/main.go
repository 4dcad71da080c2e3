// seed_series crea las series de numeración por defecto de una empresa: una
// serie por tipo de documento (factura, nota de crédito, nota de débito y
// nota de entrega), todas activas y marcadas como por defecto.
//
// Uso: go run ./cmd/seed_series <company_id>
// La conexión se toma de la configuración (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/infrastructure/postgres"
	"github.com/smartkubik/facturacion-api/pkg/config"
)

var defaultSeries = []struct {
	docType string
	name    string
	prefix  string
}{
	{entity.DocTypeInvoice, "Facturación principal", "FAC"},
	{entity.DocTypeCreditNote, "Notas de crédito", "NC"},
	{entity.DocTypeDebitNote, "Notas de débito", "ND"},
	{entity.DocTypeDeliveryNote, "Notas de entrega", "NE"},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_series <company_id>")
		os.Exit(1)
	}
	companyID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewFiscalSeriesRepository(pool)

	created := 0
	for _, s := range defaultSeries {
		// Idempotente: si el tipo ya tiene serie por defecto se respeta.
		existing, err := repo.GetDefaultByType(ctx, companyID, s.docType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "consultar serie %s: %v\n", s.docType, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("serie %s ya existe (%s), omitida\n", s.docType, existing.Prefix)
			continue
		}
		now := time.Now()
		series := &entity.FiscalSeries{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			Type:          s.docType,
			Name:          s.name,
			Prefix:        s.prefix,
			CurrentNumber: 0,
			IsDefault:     true,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Create(ctx, series); err != nil {
			fmt.Fprintf(os.Stderr, "crear serie %s: %v\n", s.docType, err)
			os.Exit(1)
		}
		fmt.Printf("serie %s creada: %s (prefijo %s)\n", s.docType, series.ID, s.prefix)
		created++
	}
	fmt.Printf("listo: %d series creadas para la empresa %s\n", created, companyID)
}
