// internal/plano/gerador.go
package plano

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
)

// ErrParametrosInvalidos indica parâmetros de geração rejeitados antes de
// qualquer escrita no banco.
var ErrParametrosInvalidos = errors.New("parâmetros de parcelamento inválidos")

// IntervaloDias converte o código de periodicidade no intervalo em dias
// entre vencimentos.
func IntervaloDias(codigo string) (int, error) {
	switch codigo {
	case "SEMANAL":
		return 7, nil
	case "QUINZENAL":
		return 15, nil
	case "MENSAL":
		return 30, nil
	case "BIMESTRAL":
		return 60, nil
	case "TRIMESTRAL":
		return 90, nil
	case "SEMESTRAL":
		return 180, nil
	case "ANUAL":
		return 365, nil
	default:
		return 0, fmt.Errorf("%w: periodicidade %q desconhecida", ErrParametrosInvalidos, codigo)
	}
}

// ParametrosGeracao reúne as entradas do gerador de parcelas.
type ParametrosGeracao struct {
	Total         decimal.Decimal
	Unidade       moeda.Unidade
	QtdParcelas   int
	IntervaloDias int
	DataInicio    time.Time
	Politica      string
	// ValorIndice é o índice capturado para a política fixada na origem
	// de totais em URH; ignorado nos demais casos.
	ValorIndice *decimal.Decimal
}

// GerarParcelas produz a sequência ordenada de parcelas do plano.
//
// O valor base é floor(total/N) na precisão da unidade; as parcelas 1..N-1
// recebem o base e a última recebe total - base*(N-1), de modo que a soma
// reconstrói o total exatamente, sem resíduo.
func GerarParcelas(p ParametrosGeracao) ([]*parcela.Parcela, error) {
	if p.QtdParcelas < 1 {
		return nil, fmt.Errorf("%w: quantidade de parcelas deve ser >= 1", ErrParametrosInvalidos)
	}
	if !p.Total.IsPositive() {
		return nil, fmt.Errorf("%w: total deve ser positivo", ErrParametrosInvalidos)
	}
	if p.IntervaloDias <= 0 {
		return nil, fmt.Errorf("%w: intervalo deve ser positivo", ErrParametrosInvalidos)
	}
	if !moeda.Valida(p.Unidade) {
		return nil, fmt.Errorf("%w: unidade %q", ErrParametrosInvalidos, p.Unidade)
	}
	if p.Politica != PoliticaFixadaNaOrigem && p.Politica != PoliticaFlutuante {
		return nil, fmt.Errorf("%w: política %q", ErrParametrosInvalidos, p.Politica)
	}

	var casas int32 = moeda.CasasBRL
	if p.Unidade == moeda.UnidadeURH {
		casas = moeda.CasasURH
	}

	n := int64(p.QtdParcelas)
	base := p.Total.Div(decimal.NewFromInt(n)).RoundFloor(casas)
	ultima := p.Total.Sub(base.Mul(decimal.NewFromInt(n - 1)))

	// Captura única do índice para planos fixados na origem em URH.
	var valorIndice *decimal.Decimal
	if p.Unidade == moeda.UnidadeURH && p.Politica == PoliticaFixadaNaOrigem {
		if p.ValorIndice == nil || !p.ValorIndice.IsPositive() {
			return nil, fmt.Errorf("%w: política fixada na origem exige valor de índice", ErrParametrosInvalidos)
		}
		valorIndice = p.ValorIndice
	}

	parcelas := make([]*parcela.Parcela, 0, p.QtdParcelas)
	for i := 0; i < p.QtdParcelas; i++ {
		valor := base
		if i == p.QtdParcelas-1 {
			valor = ultima
		}
		parcelas = append(parcelas, &parcela.Parcela{
			Numero:         i + 1,
			DataVencimento: p.DataInicio.AddDate(0, 0, i*p.IntervaloDias),
			Valor:          valor,
			Unidade:        p.Unidade,
			ValorIndice:    valorIndice,
			Status:         parcela.StatusPendente,
		})
	}
	return parcelas, nil
}
