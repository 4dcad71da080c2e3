package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

func TestFromDecimal_RedondeoHalfUp(t *testing.T) {
	// 10.005 -> 1001 (half-up), 10.004 -> 1000
	assert.Equal(t, int64(1001), money.FromDecimal(decimal.RequireFromString("10.005"), "USD").Units())
	assert.Equal(t, int64(1000), money.FromDecimal(decimal.RequireFromString("10.004"), "USD").Units())
}

func TestAdd_MonedasDistintas(t *testing.T) {
	usd := money.New(100, "USD")
	ves := money.New(100, "VES")
	_, err := usd.Add(ves)
	require.Error(t, err)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestSub_MismaMoneda(t *testing.T) {
	a := money.RequireFromString("34.80", "USD")
	b := money.RequireFromString("4.80", "USD")
	r, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "30.00", r.StringFixed())
}

func TestMulQuantity_CantidadDecimal(t *testing.T) {
	// 2.50 USD x 1.333 kg = 3.3325 -> 3.33
	price := money.RequireFromString("2.50", "USD")
	total := price.MulQuantity(decimal.RequireFromString("1.333"))
	assert.Equal(t, "3.33", total.StringFixed())
}

func TestPercent_EscenarioIVA(t *testing.T) {
	subtotal := money.RequireFromString("30.00", "USD")
	iva := subtotal.Percent(decimal.NewFromInt(16))
	assert.Equal(t, "4.80", iva.StringFixed())
}

// TestSum_SinResiduoFlotante suma 0.10 mil veces: en float64 acumula residuo,
// en unidades menores enteras el resultado es exacto.
func TestSum_SinResiduoFlotante(t *testing.T) {
	total := money.Zero("USD")
	dime := money.RequireFromString("0.10", "USD")
	for i := 0; i < 1000; i++ {
		var err error
		total, err = total.Add(dime)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(10000), total.Units())
	assert.Equal(t, "100.00", total.StringFixed())
}

func TestConvert_TasaBCV(t *testing.T) {
	total := money.RequireFromString("34.80", "USD")
	ves := total.Convert(decimal.RequireFromString("36.50"), "VES")
	assert.Equal(t, "VES", ves.Currency())
	assert.Equal(t, "1270.20", ves.StringFixed())
}

func TestJSON_IdaYVuelta(t *testing.T) {
	m := money.RequireFromString("31.32", "USD")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back money.Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.Units(), back.Units())
	assert.Equal(t, m.Currency(), back.Currency())
}

func TestCmp(t *testing.T) {
	a := money.New(100, "USD")
	b := money.New(200, "USD")
	c, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = a.Cmp(money.New(1, "VES"))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}
