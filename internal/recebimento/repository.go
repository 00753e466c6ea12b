// internal/recebimento/repository.go
package recebimento

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsula o acesso a dados de Recebimentos.
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

// Create insere um novo recebimento.
func (r *Repository) Create(rec *Recebimento) error {
	return r.DB.Create(rec).Error
}

// FindByID busca um recebimento pelo ID.
func (r *Repository) FindByID(id uint) (*Recebimento, error) {
	var rec Recebimento
	if err := r.DB.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByIDForUpdate busca o recebimento com bloqueio de linha (FOR UPDATE),
// para que o saldo não alocado não seja lido de forma obsoleta por duas
// alocações concorrentes. SQLite (usado nos testes) não suporta a cláusula.
func (r *Repository) FindByIDForUpdate(id uint) (*Recebimento, error) {
	q := r.DB
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec Recebimento
	if err := q.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// List retorna todos os recebimentos, opcionalmente filtrados por cliente.
func (r *Repository) List(clienteID uint) ([]Recebimento, error) {
	var lista []Recebimento
	q := r.DB.Order("data ASC")
	if clienteID != 0 {
		q = q.Where("cliente_id = ?", clienteID)
	}
	err := q.Find(&lista).Error
	return lista, err
}

// Delete remove o recebimento (soft delete via gorm.DeletedAt).
func (r *Repository) Delete(rec *Recebimento) error {
	return r.DB.Delete(rec).Error
}
