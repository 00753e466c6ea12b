// internal/moeda/valor.go
package moeda

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Unidade identifica o sistema em que um valor está expresso:
// moeda corrente (BRL) ou unidade referencial de honorários (URH),
// cujo equivalente em moeda varia conforme o índice publicado.
type Unidade string

const (
	UnidadeBRL Unidade = "BRL"
	UnidadeURH Unidade = "URH"
)

// Precisão de arredondamento por unidade.
const (
	CasasBRL int32 = 2
	CasasURH int32 = 6
)

var (
	// ToleranciaBRL e ToleranciaURH delimitam o resíduo de conversão
	// aceito nas verificações de saldo (0,01 BRL / 0,000001 URH).
	ToleranciaBRL = decimal.New(1, -CasasBRL)
	ToleranciaURH = decimal.New(1, -CasasURH)

	ErrUnidadeInvalida = errors.New("unidade monetária desconhecida")
	ErrIndiceInvalido  = errors.New("valor de índice deve ser positivo")
)

// Valida informa se a unidade é uma das suportadas.
func Valida(u Unidade) bool {
	return u == UnidadeBRL || u == UnidadeURH
}

// Tolerancia retorna o resíduo aceitável para a unidade informada.
func Tolerancia(u Unidade) decimal.Decimal {
	if u == UnidadeURH {
		return ToleranciaURH
	}
	return ToleranciaBRL
}

// Arredondar aplica a precisão da unidade usando arredondamento
// "half away from zero" (2 casas para BRL, 6 para URH).
func Arredondar(v decimal.Decimal, u Unidade) decimal.Decimal {
	if u == UnidadeURH {
		return v.Round(CasasURH)
	}
	return v.Round(CasasBRL)
}

// ParaMoeda converte um valor na unidade de origem para BRL.
// A conversão ocorre ANTES do arredondamento final: arredondar o
// intermediário e multiplicar depois acumula erro a cada reconversão.
func ParaMoeda(valor decimal.Decimal, origem Unidade, valorIndice decimal.Decimal) (decimal.Decimal, error) {
	switch origem {
	case UnidadeBRL:
		return valor.Round(CasasBRL), nil
	case UnidadeURH:
		if !valorIndice.IsPositive() {
			return decimal.Zero, ErrIndiceInvalido
		}
		return valor.Mul(valorIndice).Round(CasasBRL), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnidadeInvalida, origem)
	}
}

// ParaURH converte um valor na unidade de origem para URH.
func ParaURH(valor decimal.Decimal, origem Unidade, valorIndice decimal.Decimal) (decimal.Decimal, error) {
	switch origem {
	case UnidadeURH:
		return valor.Round(CasasURH), nil
	case UnidadeBRL:
		if !valorIndice.IsPositive() {
			return decimal.Zero, ErrIndiceInvalido
		}
		return valor.Div(valorIndice).Round(CasasURH), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnidadeInvalida, origem)
	}
}

// Valor é um montante etiquetado com a unidade em que foi medido.
// A conversão recebe o índice como argumento explícito; não existe
// "cotação corrente" global neste pacote.
type Valor struct {
	Quantia decimal.Decimal `json:"quantia"`
	Unidade Unidade         `json:"unidade"`
}

// NovoValor arredonda a quantia na precisão da unidade.
func NovoValor(quantia decimal.Decimal, u Unidade) Valor {
	return Valor{Quantia: Arredondar(quantia, u), Unidade: u}
}

// EmMoeda devolve o equivalente em BRL segundo o índice informado.
func (v Valor) EmMoeda(valorIndice decimal.Decimal) (decimal.Decimal, error) {
	return ParaMoeda(v.Quantia, v.Unidade, valorIndice)
}

// EmURH devolve o equivalente em URH segundo o índice informado.
func (v Valor) EmURH(valorIndice decimal.Decimal) (decimal.Decimal, error) {
	return ParaURH(v.Quantia, v.Unidade, valorIndice)
}

// DentroDaTolerancia informa se o resíduo cabe na tolerância da unidade.
func DentroDaTolerancia(residuo decimal.Decimal, u Unidade) bool {
	return residuo.Abs().LessThanOrEqual(Tolerancia(u))
}
