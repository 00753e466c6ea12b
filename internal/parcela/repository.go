// internal/parcela/repository.go
package parcela

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsula o acesso a dados de Parcelas.
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

// CreateInBatch cria múltiplas parcelas de uma vez (ignora se vazio).
func (r *Repository) CreateInBatch(parcelas []*Parcela) error {
	if len(parcelas) == 0 {
		return nil
	}
	return r.DB.Create(parcelas).Error
}

// FindByID busca uma única parcela pelo seu ID.
func (r *Repository) FindByID(id uint) (*Parcela, error) {
	var p Parcela
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDForUpdate busca a parcela com bloqueio de linha (FOR UPDATE),
// para que o saldo restante lido não seja corrompido por alocações
// concorrentes. SQLite (usado nos testes) não suporta a cláusula.
func (r *Repository) FindByIDForUpdate(id uint) (*Parcela, error) {
	q := r.DB
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p Parcela
	if err := q.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByPlanoID busca as parcelas de um plano, em ordem de numeração.
func (r *Repository) ListByPlanoID(planoID uint) ([]Parcela, error) {
	var parcelas []Parcela
	err := r.DB.
		Where("plano_id = ?", planoID).
		Order("numero ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// ListByIDs busca parcelas pelo conjunto de IDs, ordenadas pelo critério
// determinístico da conciliação: vencimento e, em empate, numeração.
func (r *Repository) ListByIDs(ids []uint) ([]Parcela, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var parcelas []Parcela
	err := r.DB.
		Where("id IN ?", ids).
		Order("data_vencimento ASC, numero ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// Update atualiza todos os campos de uma parcela existente (Save exige PK).
func (r *Repository) Update(p *Parcela) error {
	return r.DB.Save(p).Error
}

// UpdateStatus atualiza apenas o status da parcela.
func (r *Repository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&Parcela{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CapturarValorIndice grava o valor do índice numa parcela que ainda não
// o possui. A condição "valor_indice IS NULL" torna a captura idempotente:
// o primeiro pagamento fixa o índice, os demais o reutilizam.
func (r *Repository) CapturarValorIndice(id uint, valor decimal.Decimal) error {
	return r.DB.Model(&Parcela{}).
		Where("id = ? AND valor_indice IS NULL", id).
		Update("valor_indice", valor).Error
}

// AnularPendentesDoPlano anula as parcelas ainda não quitadas de um plano
// encerrado (substituição de plano).
func (r *Repository) AnularPendentesDoPlano(planoID uint) error {
	return r.DB.Model(&Parcela{}).
		Where("plano_id = ? AND status IN ?", planoID, []string{StatusPendente, StatusParcial}).
		Update("status", StatusAnulada).Error
}
