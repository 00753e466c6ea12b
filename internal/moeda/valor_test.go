// internal/moeda/valor_test.go
package moeda_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestArredondar(t *testing.T) {
	// BRL: 2 casas, half away from zero
	assert.Equal(t, "10.01", moeda.Arredondar(dec("10.005"), moeda.UnidadeBRL).StringFixed(2))
	assert.Equal(t, "-10.01", moeda.Arredondar(dec("-10.005"), moeda.UnidadeBRL).StringFixed(2))

	// URH: 6 casas
	assert.Equal(t, "0.000001", moeda.Arredondar(dec("0.0000005"), moeda.UnidadeURH).StringFixed(6))
	assert.Equal(t, "3.333333", moeda.Arredondar(dec("3.3333334"), moeda.UnidadeURH).StringFixed(6))
}

func TestParaMoeda(t *testing.T) {
	idx := dec("500")

	brl, err := moeda.ParaMoeda(dec("34"), moeda.UnidadeURH, idx)
	require.NoError(t, err)
	assert.Equal(t, "17000.00", brl.StringFixed(2))

	// BRL permanece BRL, índice ignorado
	brl, err = moeda.ParaMoeda(dec("123.456"), moeda.UnidadeBRL, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "123.46", brl.StringFixed(2))

	_, err = moeda.ParaMoeda(dec("1"), moeda.UnidadeURH, decimal.Zero)
	assert.ErrorIs(t, err, moeda.ErrIndiceInvalido)

	_, err = moeda.ParaMoeda(dec("1"), moeda.Unidade("USD"), idx)
	assert.ErrorIs(t, err, moeda.ErrUnidadeInvalida)
}

func TestParaURH(t *testing.T) {
	idx := dec("147.35")

	urh, err := moeda.ParaURH(dec("1000"), moeda.UnidadeBRL, idx)
	require.NoError(t, err)
	assert.Equal(t, "6.786562", urh.StringFixed(6))

	_, err = moeda.ParaURH(dec("1000"), moeda.UnidadeBRL, dec("-1"))
	assert.ErrorIs(t, err, moeda.ErrIndiceInvalido)
}

// Propriedade de ida-e-volta: converter para URH e de volta devolve o
// valor original dentro da tolerância de BRL.
func TestConversaoIdaEVolta(t *testing.T) {
	casos := []struct {
		valor  string
		indice string
	}{
		{"17000.00", "500"},
		{"0.01", "147.35"},
		{"99999.99", "3.141592"},
		{"1234.56", "77.777777"},
		{"350.40", "612.004512"},
	}
	for _, c := range casos {
		idx := dec(c.indice)
		urh, err := moeda.ParaURH(dec(c.valor), moeda.UnidadeBRL, idx)
		require.NoError(t, err)
		volta, err := moeda.ParaMoeda(urh, moeda.UnidadeURH, idx)
		require.NoError(t, err)

		residuo := volta.Sub(dec(c.valor))
		assert.True(t, moeda.DentroDaTolerancia(residuo, moeda.UnidadeBRL),
			"valor %s indice %s: volta %s", c.valor, c.indice, volta)
	}
}

// Converter antes de arredondar: o intermediário nunca é arredondado
// na precisão da unidade de destino antes da multiplicação.
func TestConversaoSemArredondamentoIntermediario(t *testing.T) {
	idx := dec("3")

	// 0.005 URH * 3 = 0.015 -> 0.02 BRL. Se 0.005 fosse arredondado
	// para 2 casas antes (0.01), o resultado seria 0.03.
	brl, err := moeda.ParaMoeda(dec("0.005"), moeda.UnidadeURH, idx)
	require.NoError(t, err)
	assert.Equal(t, "0.02", brl.StringFixed(2))
}

func TestValor(t *testing.T) {
	v := moeda.NovoValor(dec("10.12345678"), moeda.UnidadeURH)
	assert.Equal(t, "10.123457", v.Quantia.StringFixed(6))

	brl, err := v.EmMoeda(dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "1012.35", brl.StringFixed(2))

	urh, err := v.EmURH(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, urh.Equal(v.Quantia))
}
