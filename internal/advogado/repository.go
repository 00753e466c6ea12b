// internal/advogado/repository.go
package advogado

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/utils"
)

// Repository encapsula o acesso a dados de Advogados.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create insere um novo advogado.
func (r *Repository) Create(a *Advogado) error {
	return r.DB.Create(a).Error
}

// FindByEmail busca um advogado pelo e-mail.
func (r *Repository) FindByEmail(email string) (*Advogado, error) {
	var a Advogado
	if err := r.DB.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// SeedAdmin garante um administrador inicial a partir de ADMIN_EMAIL e
// ADMIN_SENHA; não faz nada se o e-mail já existe.
func (r *Repository) SeedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	senha := os.Getenv("ADMIN_SENHA")
	if email == "" || senha == "" {
		return nil
	}

	_, err := r.FindByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashSenha(senha)
	if err != nil {
		return err
	}
	return r.Create(&Advogado{
		Nome:    "Administrador",
		Email:   email,
		Senha:   hash,
		IsAdmin: true,
	})
}
