// internal/advogado/model.go
package advogado

import (
	"gorm.io/gorm"
)

// Advogado é o usuário do escritório que opera o sistema. Identidade e
// permissões finas são de outro sistema; aqui fica só o necessário para
// o login da API.
type Advogado struct {
	gorm.Model
	Nome    string `json:"nome"`
	OAB     string `json:"oab" gorm:"unique"`
	Email   string `json:"email" gorm:"unique"`
	Senha   string `json:"-"`
	IsAdmin bool   `json:"isAdmin"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Advogado{})
}
