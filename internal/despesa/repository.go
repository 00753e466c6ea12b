// internal/despesa/repository.go
package despesa

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsula o acesso a dados de Despesas.
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

// Create insere uma nova despesa.
func (r *Repository) Create(d *Despesa) error {
	return r.DB.Create(d).Error
}

// FindByID busca uma despesa pelo ID.
func (r *Repository) FindByID(id uint) (*Despesa, error) {
	var d Despesa
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByIDForUpdate busca a despesa com bloqueio de linha (FOR UPDATE).
// SQLite (usado nos testes) não suporta a cláusula.
func (r *Repository) FindByIDForUpdate(id uint) (*Despesa, error) {
	q := r.DB
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var d Despesa
	if err := q.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// List retorna todas as despesas, opcionalmente filtradas por caso.
func (r *Repository) List(casoID uint) ([]Despesa, error) {
	var lista []Despesa
	q := r.DB.Order("data_lancamento ASC")
	if casoID != 0 {
		q = q.Where("caso_id = ?", casoID)
	}
	err := q.Find(&lista).Error
	return lista, err
}

// UpdateStatus atualiza apenas o status derivado da despesa.
func (r *Repository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&Despesa{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete remove a despesa (soft delete via gorm.DeletedAt).
func (r *Repository) Delete(d *Despesa) error {
	return r.DB.Delete(d).Error
}
