// internal/conciliacao/service.go
package conciliacao

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/alocacao"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/recebimento"
)

const motivoConciliacao = "Conciliação"

// DespesaDesejada declara o estado-alvo de uma despesa na conciliação:
// quanto deste recebimento deve estar aplicado contra ela.
type DespesaDesejada struct {
	DespesaID uint            `json:"despesaId"`
	Valor     decimal.Decimal `json:"valor"`
}

// ResultadoConciliacao resume o diff aplicado: linhas criadas, linhas
// inativadas e o conjunto ativo final.
type ResultadoConciliacao struct {
	Adicionadas int                 `json:"adicionadas"`
	Removidas   int                 `json:"removidas"`
	Alocacoes   []alocacao.Alocacao `json:"alocacoes"`
}

// Service concilia um recebimento contra um conjunto desejado de alvos:
// compara o desejado com as alocações persistidas, inativa/ajusta/cria o
// necessário e varre o saldo restante pelas parcelas desejadas em ordem
// determinística. A operação inteira roda numa única transação e é
// idempotente: repetida com o mesmo conjunto, o diff da segunda chamada é
// vazio. Só estado persistido entra no cálculo, nunca deltas em memória,
// então é seguro reexecutar após falha parcial.
type Service struct {
	DB    *gorm.DB
	Motor *alocacao.Service
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Motor: alocacao.NewService(db)}
}

// Conciliar aplica o diff entre o estado atual e o desejado.
func (s *Service) Conciliar(recebimentoID uint, parcelasDesejadas []uint, despesasDesejadas []DespesaDesejada) (*ResultadoConciliacao, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	resultado, err := s.conciliar(tx, recebimentoID, parcelasDesejadas, despesasDesejadas)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return resultado, nil
}

func (s *Service) conciliar(tx *gorm.DB, recebimentoID uint, parcelasDesejadas []uint, despesasDesejadas []DespesaDesejada) (*ResultadoConciliacao, error) {
	recs := recebimento.NewRepository(tx)
	rec, err := recs.FindByIDForUpdate(recebimentoID)
	if err != nil {
		return nil, err
	}

	alocs := alocacao.NewRepository(tx)
	ativas, err := alocs.ListAtivasByRecebimento(rec.ID)
	if err != nil {
		return nil, err
	}

	// O conjunto desejado pode vir com repetições; daqui em diante só o
	// conjunto deduplicado importa.
	parcelaDesejada := make(map[uint]bool, len(parcelasDesejadas))
	parcelasUnicas := make([]uint, 0, len(parcelasDesejadas))
	for _, id := range parcelasDesejadas {
		if !parcelaDesejada[id] {
			parcelaDesejada[id] = true
			parcelasUnicas = append(parcelasUnicas, id)
		}
	}
	valorDesejado := make(map[uint]decimal.Decimal, len(despesasDesejadas))
	for _, d := range despesasDesejadas {
		valorDesejado[d.DespesaID] = moeda.Arredondar(d.Valor, moeda.UnidadeBRL)
	}

	resultado := &ResultadoConciliacao{}
	var invalidadas []alocacao.Alocacao

	// Soma atual por despesa (um alvo pode acumular mais de uma linha).
	somaDespesa := make(map[uint]decimal.Decimal)
	linhasDespesa := make(map[uint][]alocacao.Alocacao)
	for _, a := range ativas {
		if a.DespesaID != nil {
			somaDespesa[*a.DespesaID] = somaDespesa[*a.DespesaID].Add(a.ValorBRL)
			linhasDespesa[*a.DespesaID] = append(linhasDespesa[*a.DespesaID], a)
		}
	}

	// 1. Parcelas que saíram do conjunto desejado: inativa as alocações.
	for _, a := range ativas {
		if a.ParcelaID == nil || parcelaDesejada[*a.ParcelaID] {
			continue
		}
		if err := alocs.Inativar(a.ID, motivoConciliacao); err != nil {
			return nil, err
		}
		resultado.Removidas++
		invalidadas = append(invalidadas, a)
	}

	// 2. Despesas: o desejado é estado explícito (id + valor). Some fora
	// do desejado, ou acima dele, inativa; abaixo dele, completa adiante.
	var completarDespesas []uint
	var criarDespesas []uint
	for despesaID, linhas := range linhasDespesa {
		desejado, presente := valorDesejado[despesaID]
		if presente && somaDespesa[despesaID].LessThanOrEqual(desejado) {
			continue
		}
		// fora do desejado ou acima do valor-alvo: recomeça do zero
		for _, a := range linhas {
			if err := alocs.Inativar(a.ID, motivoConciliacao); err != nil {
				return nil, err
			}
			resultado.Removidas++
			invalidadas = append(invalidadas, a)
		}
		if presente {
			criarDespesas = append(criarDespesas, despesaID)
		}
	}
	for _, d := range despesasDesejadas {
		soma, existia := somaDespesa[d.DespesaID]
		switch {
		case !existia:
			criarDespesas = append(criarDespesas, d.DespesaID)
		case soma.LessThan(valorDesejado[d.DespesaID]):
			completarDespesas = append(completarDespesas, d.DespesaID)
		}
	}

	// Rederiva os alvos atingidos pelas inativações antes de realocar.
	if err := alocacao.RederivarAlvos(tx, invalidadas); err != nil {
		return nil, err
	}

	// 3. Cria/completa as alocações de despesa, limitadas pela regra
	// normal de min(saldo do recebimento, saldo do alvo).
	for _, despesaID := range criarDespesas {
		a, err := s.Motor.AlocarAteLimite(tx, rec.ID, alocacao.AlvoDespesa, despesaID, valorDesejado[despesaID], motivoConciliacao)
		if err != nil {
			return nil, err
		}
		if a != nil {
			resultado.Adicionadas++
		}
	}
	for _, despesaID := range completarDespesas {
		falta := valorDesejado[despesaID].Sub(somaDespesa[despesaID])
		a, err := s.Motor.AlocarAteLimite(tx, rec.ID, alocacao.AlvoDespesa, despesaID, falta, motivoConciliacao)
		if err != nil {
			return nil, err
		}
		if a != nil {
			resultado.Adicionadas++
		}
	}

	// 4. Varre o saldo restante pelas parcelas desejadas, em ordem de
	// vencimento e numeração. O motor recalcula o saldo persistido a cada
	// passo e limita sozinho; pedir o total do recebimento basta.
	ordenadas, err := parcela.NewRepository(tx).ListByIDs(parcelasUnicas)
	if err != nil {
		return nil, err
	}
	if len(ordenadas) != len(parcelasUnicas) {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range ordenadas {
		a, err := s.Motor.AlocarAteLimite(tx, rec.ID, alocacao.AlvoParcela, ordenadas[i].ID, rec.ValorBRL, motivoConciliacao)
		if err != nil {
			return nil, err
		}
		if a != nil {
			resultado.Adicionadas++
		}
	}

	resultado.Alocacoes, err = alocs.ListAtivasByRecebimento(rec.ID)
	if err != nil {
		return nil, err
	}
	return resultado, nil
}
