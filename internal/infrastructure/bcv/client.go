// Package bcv obtiene la tasa de cambio oficial USD/VES del Banco Central de
// Venezuela. La tasa se cachea por intervalo: los cálculos jamás golpean la
// red, consumen el último snapshot.
package bcv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/pkg/logger"
)

var _ billing.ExchangeRateSource = (*Client)(nil)

// rateResponse cuerpo esperado del endpoint de tasas.
type rateResponse struct {
	Promedio   decimal.Decimal `json:"promedio"`
	FechaValor time.Time       `json:"fechaValor"`
}

// Client fuente de tasa BCV con caché TTL. Ante una falla de red con caché
// vigente o vencido se sirve el último valor conocido: una tasa de hace una
// hora es mejor que un carrito sin total convertido.
type Client struct {
	http *resty.Client
	ttl  time.Duration
	log  *logger.Logger

	mu        sync.Mutex
	cached    *entity.ExchangeRate
	expiresAt time.Time
}

// NewClient construye el cliente contra el endpoint dado.
func NewClient(baseURL string, refreshMinutes int, log *logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{
		http: httpClient,
		ttl:  time.Duration(refreshMinutes) * time.Minute,
		log:  log,
	}
}

// CurrentRate devuelve el snapshot vigente, refrescando contra el BCV si el
// TTL expiró.
func (c *Client) CurrentRate(ctx context.Context, base, quote string) (entity.ExchangeRate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.cached != nil && now.Before(c.expiresAt) {
		return *c.cached, nil
	}

	var body rateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/tasa/" + base)
	if err != nil || resp.IsError() {
		if c.cached != nil {
			c.log.Warn().Err(err).Msg("bcv: usando última tasa conocida")
			return *c.cached, nil
		}
		if err != nil {
			return entity.ExchangeRate{}, fmt.Errorf("bcv: consultar tasa: %w", err)
		}
		return entity.ExchangeRate{}, fmt.Errorf("bcv: consultar tasa: status %d", resp.StatusCode())
	}
	if body.Promedio.IsZero() {
		return entity.ExchangeRate{}, fmt.Errorf("bcv: tasa vacía para %s", base)
	}

	rate := entity.ExchangeRate{
		Base:  base,
		Quote: quote,
		Rate:  body.Promedio,
		AsOf:  body.FechaValor,
	}
	if rate.AsOf.IsZero() {
		rate.AsOf = now
	}
	c.cached = &rate
	c.expiresAt = now.Add(c.ttl)
	return rate, nil
}

// StaticSource fuente de tasa fija para desarrollo y tests.
type StaticSource struct {
	Rate decimal.Decimal
}

var _ billing.ExchangeRateSource = StaticSource{}

// CurrentRate devuelve siempre la tasa configurada.
func (s StaticSource) CurrentRate(_ context.Context, base, quote string) (entity.ExchangeRate, error) {
	return entity.ExchangeRate{Base: base, Quote: quote, Rate: s.Rate, AsOf: time.Now()}, nil
}
