// internal/plano/service.go
package plano

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/honorario"
	"github.com/gasparhdz/lex-sub000/internal/indice"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
)

// Service orquestra a geração de planos: valida a entrada, encerra o
// plano ativo anterior (dimensionando o novo pelo saldo remanescente),
// captura o índice quando a política exige e grava tudo numa transação.
type Service struct {
	DB         *gorm.DB
	Honorarios *honorario.Repository
	Indices    *indice.Repository
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:         db,
		Honorarios: honorario.NewRepository(db),
		Indices:    indice.NewRepository(db),
	}
}

// EntradaPlano reúne os parâmetros aceitos na geração de um plano.
type EntradaPlano struct {
	QtdParcelas   int
	Periodicidade string
	DataInicio    time.Time
	Politica      string
}

// Gerar cria o plano de parcelamento do honorário. Se já existe um plano
// ativo, ele é encerrado, suas parcelas não quitadas são anuladas e o novo
// plano é dimensionado pelo saldo ainda não alocado.
func (s *Service) Gerar(honorarioID uint, in EntradaPlano) (*Plano, error) {
	intervalo, err := IntervaloDias(in.Periodicidade)
	if err != nil {
		return nil, err
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	hon, err := s.Honorarios.WithDB(tx).FindByID(honorarioID)
	if err != nil {
		return nil, err
	}

	planos := NewRepository(tx)
	parcelas := parcela.NewRepository(tx)

	total := hon.Valor
	atual, err := planos.FindAtivoByHonorario(honorarioID)
	if err != nil {
		return nil, err
	}
	if atual != nil {
		emURH := hon.Unidade == moeda.UnidadeURH
		alocado, err := planos.SumAlocadoNativoByHonorario(honorarioID, emURH)
		if err != nil {
			return nil, err
		}
		total = moeda.Arredondar(hon.Valor.Sub(alocado), hon.Unidade)

		if err := planos.Encerrar(atual.ID); err != nil {
			return nil, err
		}
		if err := parcelas.AnularPendentesDoPlano(atual.ID); err != nil {
			return nil, err
		}
	}

	// Política fixada na origem de um total em URH captura o índice
	// vigente na data de início, uma única vez para o plano inteiro.
	var valorIndice *decimal.Decimal
	if hon.Unidade == moeda.UnidadeURH && in.Politica == PoliticaFixadaNaOrigem {
		vi, err := s.Indices.WithDB(tx).VigenteEm(in.DataInicio)
		if err != nil {
			return nil, err
		}
		valorIndice = &vi.Valor
	}

	geradas, err := GerarParcelas(ParametrosGeracao{
		Total:         total,
		Unidade:       hon.Unidade,
		QtdParcelas:   in.QtdParcelas,
		IntervaloDias: intervalo,
		DataInicio:    in.DataInicio,
		Politica:      in.Politica,
		ValorIndice:   valorIndice,
	})
	if err != nil {
		return nil, err
	}

	novo := &Plano{
		HonorarioID:   honorarioID,
		DataInicio:    in.DataInicio,
		Periodicidade: in.Periodicidade,
		IntervaloDias: intervalo,
		Politica:      in.Politica,
		QtdParcelas:   in.QtdParcelas,
		Status:        StatusAtivo,
	}
	if err := planos.Create(novo); err != nil {
		return nil, err
	}
	for _, p := range geradas {
		p.PlanoID = novo.ID
	}
	if err := parcelas.CreateInBatch(geradas); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.carregar(novo.ID)
}

func (s *Service) carregar(id uint) (*Plano, error) {
	return NewRepository(s.DB).FindByID(id)
}
