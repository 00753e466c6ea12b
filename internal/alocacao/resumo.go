// internal/alocacao/resumo.go
package alocacao

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gasparhdz/lex-sub000/internal/despesa"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/recebimento"
)

// ResumoObrigacao é a visão consolidada de uma parcela ou despesa:
// total nativo, quanto já foi coletado (nas duas unidades) e o que resta.
type ResumoObrigacao struct {
	TipoAlvo      string          `json:"tipoAlvo"`
	AlvoID        uint            `json:"alvoId"`
	TotalNativo   decimal.Decimal `json:"totalNativo"`
	Unidade       moeda.Unidade   `json:"unidade"`
	AlocadoBRL    decimal.Decimal `json:"alocadoBrl"`
	AlocadoNativo decimal.Decimal `json:"alocadoNativo"`
	RestanteBRL   decimal.Decimal `json:"restanteBrl"`
	Status        string          `json:"status"`
	Vencida       bool            `json:"vencida,omitempty"`
}

// ResumoRecebimento é a visão consolidada de um recebimento.
type ResumoRecebimento struct {
	RecebimentoID uint            `json:"recebimentoId"`
	TotalBRL      decimal.Decimal `json:"totalBrl"`
	AlocadoBRL    decimal.Decimal `json:"alocadoBrl"`
	RestanteBRL   decimal.Decimal `json:"restanteBrl"`
}

// Resumir monta o resumo consolidado de uma obrigação.
func (s *Service) Resumir(tipoAlvo string, alvoID uint) (*ResumoObrigacao, error) {
	alocs := NewRepository(s.DB)

	switch tipoAlvo {
	case AlvoParcela:
		parc, err := parcela.NewRepository(s.DB).FindByID(alvoID)
		if err != nil {
			return nil, err
		}

		alocadoBRL, err := alocs.SumBRLByParcela(parc.ID)
		if err != nil {
			return nil, err
		}

		alocadoNativo := alocadoBRL
		restanteBRL := decimal.Zero
		if parc.Unidade == moeda.UnidadeURH {
			alocadoNativo, err = alocs.SumURHByParcela(parc.ID)
			if err != nil {
				return nil, err
			}
			if parc.ValorIndice != nil {
				restanteNativo := parc.Valor.Sub(alocadoNativo)
				if restanteNativo.IsNegative() {
					restanteNativo = decimal.Zero
				}
				restanteBRL, err = moeda.ParaMoeda(restanteNativo, moeda.UnidadeURH, *parc.ValorIndice)
				if err != nil {
					return nil, err
				}
			}
		} else {
			restanteBRL = moeda.Arredondar(parc.Valor.Sub(alocadoBRL), moeda.UnidadeBRL)
			if restanteBRL.IsNegative() {
				restanteBRL = decimal.Zero
			}
		}

		return &ResumoObrigacao{
			TipoAlvo:      AlvoParcela,
			AlvoID:        parc.ID,
			TotalNativo:   parc.Valor,
			Unidade:       parc.Unidade,
			AlocadoBRL:    alocadoBRL,
			AlocadoNativo: alocadoNativo,
			RestanteBRL:   restanteBRL,
			Status:        parc.Status,
			Vencida:       parc.Vencida(time.Now()),
		}, nil

	case AlvoDespesa:
		desp, err := despesa.NewRepository(s.DB).FindByID(alvoID)
		if err != nil {
			return nil, err
		}
		alocadoBRL, err := alocs.SumBRLByDespesa(desp.ID)
		if err != nil {
			return nil, err
		}
		restanteBRL := moeda.Arredondar(desp.Valor.Sub(alocadoBRL), moeda.UnidadeBRL)
		if restanteBRL.IsNegative() {
			restanteBRL = decimal.Zero
		}
		return &ResumoObrigacao{
			TipoAlvo:      AlvoDespesa,
			AlvoID:        desp.ID,
			TotalNativo:   desp.Valor,
			Unidade:       moeda.UnidadeBRL,
			AlocadoBRL:    alocadoBRL,
			AlocadoNativo: alocadoBRL,
			RestanteBRL:   restanteBRL,
			Status:        desp.Status,
		}, nil

	default:
		return nil, fmt.Errorf("%w: tipo %q", ErrAlvoInvalido, tipoAlvo)
	}
}

// ResumirRecebimento monta o resumo consolidado de um recebimento.
func (s *Service) ResumirRecebimento(recebimentoID uint) (*ResumoRecebimento, error) {
	rec, err := recebimento.NewRepository(s.DB).FindByID(recebimentoID)
	if err != nil {
		return nil, err
	}
	alocado, err := NewRepository(s.DB).SumBRLByRecebimento(rec.ID)
	if err != nil {
		return nil, err
	}
	restante := rec.ValorBRL.Sub(alocado)
	if restante.IsNegative() {
		restante = decimal.Zero
	}
	return &ResumoRecebimento{
		RecebimentoID: rec.ID,
		TotalBRL:      rec.ValorBRL,
		AlocadoBRL:    alocado,
		RestanteBRL:   restante,
	}, nil
}
