package entity

import "time"

// FiscalSeries serie de numeración fiscal: un flujo de consecutivos con
// prefijo por tipo de documento. El contador solo crece (nunca se reinicia
// salvo acción administrativa explícita) y existe a lo sumo una serie por
// defecto por tipo y empresa.
type FiscalSeries struct {
	ID            string
	CompanyID     string
	Type          string // DocTypeInvoice, DocTypeCreditNote, ...
	Name          string
	Prefix        string // ej: "FAC", "NC", "ND"
	CurrentNumber int64
	IsDefault     bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
