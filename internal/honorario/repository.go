// internal/honorario/repository.go
package honorario

import (
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Honorários.
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

// Create insere um novo honorário.
func (r *Repository) Create(h *Honorario) error {
	return r.DB.Create(h).Error
}

// FindByID retorna um honorário pelo ID.
func (r *Repository) FindByID(id uint) (*Honorario, error) {
	var h Honorario
	if err := r.DB.First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// List retorna todos os honorários, opcionalmente filtrados por caso.
func (r *Repository) List(casoID uint) ([]Honorario, error) {
	var lista []Honorario
	q := r.DB.Order("id ASC")
	if casoID != 0 {
		q = q.Where("caso_id = ?", casoID)
	}
	err := q.Find(&lista).Error
	return lista, err
}

// Update salva alterações em um honorário existente.
func (r *Repository) Update(h *Honorario) error {
	return r.DB.Save(h).Error
}

// UpdateStatus atualiza apenas o status derivado do honorário.
func (r *Repository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&Honorario{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete remove o honorário (soft delete via gorm.DeletedAt).
func (r *Repository) Delete(h *Honorario) error {
	return r.DB.Delete(h).Error
}
