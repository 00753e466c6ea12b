// internal/alocacao/service.go
package alocacao

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/despesa"
	"github.com/gasparhdz/lex-sub000/internal/indice"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/recebimento"
)

// Service é o motor de alocação de pagamentos: dado um recebimento e um
// alvo (parcela ou despesa), calcula o máximo alocável, valida contra os
// saldos dos dois lados e grava a alocação com os montantes nas duas
// unidades derivados de forma consistente. Toda operação mutante roda em
// uma única transação; os saldos são relidos sob bloqueio de linha
// imediatamente antes da escrita que os consome.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Alocar aplica o valor solicitado do recebimento contra o alvo. Se o
// pedido ultrapassa o teto (menor saldo entre os dois lados) além da
// tolerância, falha com ExcedeDisponivelError carregando o teto calculado.
// Pedido que arredonda para zero não tem efeito e retorna nil.
func (s *Service) Alocar(recebimentoID uint, tipoAlvo string, alvoID uint, valor decimal.Decimal) (*Alocacao, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	a, err := s.alocar(tx, recebimentoID, tipoAlvo, alvoID, valor, true, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return a, nil
}

// AlocarAteLimite é a variante usada pela conciliação: em vez de falhar,
// o pedido é limitado silenciosamente ao teto disponível.
func (s *Service) AlocarAteLimite(tx *gorm.DB, recebimentoID uint, tipoAlvo string, alvoID uint, valor decimal.Decimal, motivo string) (*Alocacao, error) {
	return s.alocar(tx, recebimentoID, tipoAlvo, alvoID, valor, false, motivo)
}

func (s *Service) alocar(tx *gorm.DB, recebimentoID uint, tipoAlvo string, alvoID uint, valor decimal.Decimal, estrito bool, motivo string) (*Alocacao, error) {
	solicitado := moeda.Arredondar(valor, moeda.UnidadeBRL)
	if estrito && !solicitado.IsPositive() {
		return nil, ErrValorInvalido
	}

	recs := recebimento.NewRepository(tx)
	alocs := NewRepository(tx)

	// Saldo do recebimento relido sob FOR UPDATE: duas alocações
	// concorrentes contra o mesmo recebimento serializam aqui.
	rec, err := recs.FindByIDForUpdate(recebimentoID)
	if err != nil {
		return nil, err
	}
	alocadoRec, err := alocs.SumBRLByRecebimento(rec.ID)
	if err != nil {
		return nil, err
	}
	restanteRec := rec.ValorBRL.Sub(alocadoRec)

	var (
		restanteAlvoBRL decimal.Decimal
		parc            *parcela.Parcela
		desp            *despesa.Despesa
	)

	switch tipoAlvo {
	case AlvoParcela:
		parcs := parcela.NewRepository(tx)
		parc, err = parcs.FindByIDForUpdate(alvoID)
		if err != nil {
			return nil, err
		}
		if !parc.Ativa() {
			return nil, fmt.Errorf("%w: parcela %d está %s", ErrAlvoInvalido, parc.ID, parc.Status)
		}

		// Política flutuante: o índice da parcela é capturado no primeiro
		// pagamento, com o valor vigente na data deste recebimento. A
		// atribuição é única e idempotente.
		if parc.Unidade == moeda.UnidadeURH && parc.ValorIndice == nil {
			vi, err := indice.NewRepository(tx).VigenteEm(rec.Data)
			if err != nil {
				return nil, err
			}
			if err := parcs.CapturarValorIndice(parc.ID, vi.Valor); err != nil {
				return nil, err
			}
			parc.ValorIndice = &vi.Valor
		}

		restanteAlvoBRL, err = s.restanteParcelaBRL(tx, parc)
		if err != nil {
			return nil, err
		}

	case AlvoDespesa:
		desps := despesa.NewRepository(tx)
		desp, err = desps.FindByIDForUpdate(alvoID)
		if err != nil {
			return nil, err
		}
		alocado, err := alocs.SumBRLByDespesa(desp.ID)
		if err != nil {
			return nil, err
		}
		restanteAlvoBRL = moeda.Arredondar(desp.Valor.Sub(alocado), moeda.UnidadeBRL)

	default:
		return nil, fmt.Errorf("%w: tipo %q", ErrAlvoInvalido, tipoAlvo)
	}

	teto := decimal.Min(restanteRec, restanteAlvoBRL)
	if teto.IsNegative() {
		teto = decimal.Zero
	}
	teto = moeda.Arredondar(teto, moeda.UnidadeBRL)

	if estrito && solicitado.Sub(teto).GreaterThan(moeda.ToleranciaBRL) {
		return nil, &ExcedeDisponivelError{Solicitado: solicitado, Teto: teto}
	}

	final := decimal.Min(solicitado, teto)
	if !final.IsPositive() {
		// arredondou para zero: sem efeito
		return nil, nil
	}

	a := &Alocacao{
		RecebimentoID: rec.ID,
		ValorBRL:      final,
		Ativa:         true,
		Motivo:        motivo,
	}
	if parc != nil {
		a.ParcelaID = &parc.ID
		if parc.Unidade == moeda.UnidadeURH {
			// O equivalente em URH deriva do próprio valor final, nunca de
			// um recálculo independente: as duas representações ficam
			// mutuamente consistentes.
			vURH, err := moeda.ParaURH(final, moeda.UnidadeBRL, *parc.ValorIndice)
			if err != nil {
				return nil, err
			}
			a.ValorIndice = parc.ValorIndice
			a.ValorURH = &vURH
		}
	} else {
		a.DespesaID = &desp.ID
	}

	if err := NewRepository(tx).Create(a); err != nil {
		return nil, err
	}

	// Derivação de status na mesma transação da mudança que a disparou.
	if parc != nil {
		if _, err := DerivarStatusParcela(tx, parc); err != nil {
			return nil, err
		}
		if err := DerivarStatusHonorarioDaParcela(tx, parc); err != nil {
			return nil, err
		}
	} else {
		if _, err := DerivarStatusDespesa(tx, desp); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// restanteParcelaBRL calcula o saldo da parcela na unidade nativa e o
// converte para BRL com o índice capturado na parcela.
func (s *Service) restanteParcelaBRL(tx *gorm.DB, parc *parcela.Parcela) (decimal.Decimal, error) {
	alocs := NewRepository(tx)
	if parc.Unidade == moeda.UnidadeURH {
		alocado, err := alocs.SumURHByParcela(parc.ID)
		if err != nil {
			return decimal.Zero, err
		}
		restanteNativo := parc.Valor.Sub(alocado)
		if restanteNativo.IsNegative() {
			restanteNativo = decimal.Zero
		}
		return moeda.ParaMoeda(restanteNativo, moeda.UnidadeURH, *parc.ValorIndice)
	}

	alocado, err := alocs.SumBRLByParcela(parc.ID)
	if err != nil {
		return decimal.Zero, err
	}
	restante := parc.Valor.Sub(alocado)
	if restante.IsNegative() {
		restante = decimal.Zero
	}
	return moeda.Arredondar(restante, moeda.UnidadeBRL), nil
}

// CancelarRecebimento remove o recebimento (soft delete), inativa todas
// as suas alocações e rederiva o status de cada alvo atingido.
func (s *Service) CancelarRecebimento(recebimentoID uint) (int64, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer tx.Rollback()

	recs := recebimento.NewRepository(tx)
	rec, err := recs.FindByIDForUpdate(recebimentoID)
	if err != nil {
		return 0, err
	}

	alocs := NewRepository(tx)
	ativas, err := alocs.ListAtivasByRecebimento(rec.ID)
	if err != nil {
		return 0, err
	}

	removidas, err := alocs.InativarByRecebimento(rec.ID, "Cancelamento de recebimento")
	if err != nil {
		return 0, err
	}

	if err := RederivarAlvos(tx, ativas); err != nil {
		return 0, err
	}

	if err := recs.Delete(rec); err != nil {
		return 0, err
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return removidas, nil
}

// MarcarParcela aplica um estado explícito do advogado (Anulada ou
// Isenta) a uma parcela não quitada e rederiva o status do honorário na
// mesma transação. Esses estados nunca são derivados automaticamente;
// parcela quitada não pode ser marcada.
func (s *Service) MarcarParcela(parcelaID uint, status string) (*parcela.Parcela, error) {
	if status != parcela.StatusAnulada && status != parcela.StatusIsenta {
		return nil, fmt.Errorf("%w: status %q (use Anulada ou Isenta)", ErrStatusInvalido, status)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	parcs := parcela.NewRepository(tx)
	parc, err := parcs.FindByIDForUpdate(parcelaID)
	if err != nil {
		return nil, err
	}
	if parc.Status == parcela.StatusQuitada {
		return nil, fmt.Errorf("%w: parcela %d já está quitada", ErrStatusInvalido, parc.ID)
	}

	if parc.Status != status {
		if err := parcs.UpdateStatus(parc.ID, status); err != nil {
			return nil, err
		}
		parc.Status = status
	}

	// A parcela sai da base de cálculo do honorário; rederiva.
	if err := DerivarStatusHonorarioDaParcela(tx, parc); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return parc, nil
}

// RederivarAlvos rederiva o status de cada parcela (e honorário) e
// despesa atingidos pelas alocações informadas.
func RederivarAlvos(tx *gorm.DB, alteradas []Alocacao) error {
	parcs := parcela.NewRepository(tx)
	desps := despesa.NewRepository(tx)

	parcelasVistas := map[uint]bool{}
	despesasVistas := map[uint]bool{}
	for _, a := range alteradas {
		switch {
		case a.ParcelaID != nil && !parcelasVistas[*a.ParcelaID]:
			parcelasVistas[*a.ParcelaID] = true
			parc, err := parcs.FindByID(*a.ParcelaID)
			if err != nil {
				return err
			}
			if _, err := DerivarStatusParcela(tx, parc); err != nil {
				return err
			}
			if err := DerivarStatusHonorarioDaParcela(tx, parc); err != nil {
				return err
			}
		case a.DespesaID != nil && !despesasVistas[*a.DespesaID]:
			despesasVistas[*a.DespesaID] = true
			desp, err := desps.FindByID(*a.DespesaID)
			if err != nil {
				return err
			}
			if _, err := DerivarStatusDespesa(tx, desp); err != nil {
				return err
			}
		}
	}
	return nil
}
