// internal/indice/repository.go
package indice

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSemValorIndice indica que a tabela de índice está vazia. Operações
// sobre valores em URH nunca assumem índice zero ou um: falham de imediato.
var ErrSemValorIndice = errors.New("nenhum valor de índice publicado")

// Repository encapsula o acesso à tabela de valores do índice.
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

// Create registra um novo valor publicado.
func (r *Repository) Create(v *ValorIndice) error {
	return r.DB.Create(v).Error
}

// List retorna todos os valores publicados, do mais recente ao mais antigo.
func (r *Repository) List() ([]ValorIndice, error) {
	var valores []ValorIndice
	err := r.DB.Order("data DESC").Find(&valores).Error
	return valores, err
}

// VigenteEm resolve o valor do índice aplicável a uma data: o valor mais
// recente com vigência em ou antes da data; se nenhum a precede, o mais
// recente disponível. Só falha (ErrSemValorIndice) com a tabela vazia.
func (r *Repository) VigenteEm(data time.Time) (*ValorIndice, error) {
	var vi ValorIndice
	err := r.DB.
		Where("data <= ?", data).
		Order("data DESC").
		First(&vi).Error
	if err == nil {
		return &vi, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Nenhum valor anterior à data: recua para o mais recente publicado.
	err = r.DB.Order("data DESC").First(&vi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSemValorIndice
	}
	if err != nil {
		return nil, err
	}
	return &vi, nil
}
