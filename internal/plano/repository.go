// internal/plano/repository.go
package plano

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Planos de parcelamento.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Create insere um novo plano.
func (r *Repository) Create(p *Plano) error {
	return r.DB.Create(p).Error
}

// FindByID retorna um plano pelo ID, com as parcelas pré-carregadas em
// ordem de numeração.
func (r *Repository) FindByID(id uint) (*Plano, error) {
	var p Plano
	if err := r.DB.Preload("Parcelas", preloadOrdenado).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func preloadOrdenado(db *gorm.DB) *gorm.DB {
	return db.Order("numero ASC")
}

// FindAtivoByHonorario retorna o plano ativo de um honorário, se houver.
func (r *Repository) FindAtivoByHonorario(honorarioID uint) (*Plano, error) {
	var p Plano
	err := r.DB.
		Preload("Parcelas", preloadOrdenado).
		Where("honorario_id = ? AND status = ?", honorarioID, StatusAtivo).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByHonorario retorna todos os planos de um honorário, ativos e
// encerrados, do mais recente ao mais antigo.
func (r *Repository) ListByHonorario(honorarioID uint) ([]Plano, error) {
	var lista []Plano
	err := r.DB.
		Preload("Parcelas", preloadOrdenado).
		Where("honorario_id = ?", honorarioID).
		Order("id DESC").
		Find(&lista).Error
	return lista, err
}

// Encerrar marca o plano como encerrado (substituído).
func (r *Repository) Encerrar(id uint) error {
	return r.DB.Model(&Plano{}).
		Where("id = ?", id).
		Update("status", StatusEncerrado).Error
}

// SumAlocadoNativoByPlano soma, na unidade nativa do plano, os valores das
// alocações ativas contra as parcelas do plano. A consulta junta com a
// tabela de alocações direto por nome para não criar dependência cíclica
// entre os pacotes (o motor de alocação importa este).
func (r *Repository) SumAlocadoNativoByPlano(planoID uint, emURH bool) (decimal.Decimal, error) {
	coluna := "alocacoes.valor_brl"
	if emURH {
		coluna = "alocacoes.valor_urh"
	}
	var total decimal.NullDecimal
	err := r.DB.
		Table("alocacoes").
		Joins("JOIN parcelas ON parcelas.id = alocacoes.parcela_id").
		Where("parcelas.plano_id = ? AND alocacoes.ativa = ?", planoID, true).
		Select("SUM(" + coluna + ")").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SumAlocadoNativoByHonorario soma o alocado ativo contra parcelas de
// qualquer plano do honorário (ativos e encerrados). É a base do saldo
// remanescente na substituição de plano.
func (r *Repository) SumAlocadoNativoByHonorario(honorarioID uint, emURH bool) (decimal.Decimal, error) {
	coluna := "alocacoes.valor_brl"
	if emURH {
		coluna = "alocacoes.valor_urh"
	}
	var total decimal.NullDecimal
	err := r.DB.
		Table("alocacoes").
		Joins("JOIN parcelas ON parcelas.id = alocacoes.parcela_id").
		Joins("JOIN planos ON planos.id = parcelas.plano_id").
		Where("planos.honorario_id = ? AND alocacoes.ativa = ?", honorarioID, true).
		Select("SUM(" + coluna + ")").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
