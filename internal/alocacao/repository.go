// internal/alocacao/repository.go
package alocacao

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Alocações. Linhas inativas
// ficam fora de toda soma de saldo, mas nunca são apagadas.
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

// Create insere uma nova linha de alocação.
func (r *Repository) Create(a *Alocacao) error {
	return r.DB.Create(a).Error
}

// FindByID busca uma alocação pelo ID.
func (r *Repository) FindByID(id uint) (*Alocacao, error) {
	var a Alocacao
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAtivasByRecebimento retorna as alocações ativas de um recebimento.
func (r *Repository) ListAtivasByRecebimento(recebimentoID uint) ([]Alocacao, error) {
	var lista []Alocacao
	err := r.DB.
		Where("recebimento_id = ? AND ativa = ?", recebimentoID, true).
		Order("id ASC").
		Find(&lista).Error
	return lista, err
}

// ListAtivasByParcela retorna as alocações ativas contra uma parcela.
func (r *Repository) ListAtivasByParcela(parcelaID uint) ([]Alocacao, error) {
	var lista []Alocacao
	err := r.DB.
		Where("parcela_id = ? AND ativa = ?", parcelaID, true).
		Order("id ASC").
		Find(&lista).Error
	return lista, err
}

// ListAtivasByDespesa retorna as alocações ativas contra uma despesa.
func (r *Repository) ListAtivasByDespesa(despesaID uint) ([]Alocacao, error) {
	var lista []Alocacao
	err := r.DB.
		Where("despesa_id = ? AND ativa = ?", despesaID, true).
		Order("id ASC").
		Find(&lista).Error
	return lista, err
}

// SumBRLByRecebimento soma, em BRL, as alocações ativas do recebimento.
func (r *Repository) SumBRLByRecebimento(recebimentoID uint) (decimal.Decimal, error) {
	return r.soma("recebimento_id = ?", recebimentoID, "valor_brl")
}

// SumBRLByParcela soma, em BRL, as alocações ativas da parcela.
func (r *Repository) SumBRLByParcela(parcelaID uint) (decimal.Decimal, error) {
	return r.soma("parcela_id = ?", parcelaID, "valor_brl")
}

// SumURHByParcela soma, em URH, as alocações ativas da parcela. Cada linha
// carrega o equivalente derivado com o índice capturado na própria
// alocação; a soma nunca reconverte com um índice único.
func (r *Repository) SumURHByParcela(parcelaID uint) (decimal.Decimal, error) {
	return r.soma("parcela_id = ?", parcelaID, "valor_urh")
}

// SumBRLByDespesa soma, em BRL, as alocações ativas da despesa.
func (r *Repository) SumBRLByDespesa(despesaID uint) (decimal.Decimal, error) {
	return r.soma("despesa_id = ?", despesaID, "valor_brl")
}

func (r *Repository) soma(cond string, id uint, coluna string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB.Model(&Alocacao{}).
		Where(cond+" AND ativa = ?", id, true).
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

// Inativar marca a linha como inativa, preservando-a para auditoria.
func (r *Repository) Inativar(id uint, motivo string) error {
	return r.DB.Model(&Alocacao{}).
		Where("id = ? AND ativa = ?", id, true).
		Updates(map[string]interface{}{"ativa": false, "motivo": motivo}).Error
}

// InativarByRecebimento inativa todas as alocações ativas do recebimento.
// Retorna quantas linhas foram afetadas.
func (r *Repository) InativarByRecebimento(recebimentoID uint, motivo string) (int64, error) {
	res := r.DB.Model(&Alocacao{}).
		Where("recebimento_id = ? AND ativa = ?", recebimentoID, true).
		Updates(map[string]interface{}{"ativa": false, "motivo": motivo})
	return res.RowsAffected, res.Error
}
