// internal/indice/model.go
package indice

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValorIndice é um valor da URH publicado com vigência a partir de Data.
// A tabela é mantida externamente; este serviço apenas a consulta
// (o endpoint de carga existe para administração e testes).
type ValorIndice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Data      time.Time       `gorm:"not null;uniqueIndex" json:"data"`
	Valor     decimal.Decimal `gorm:"type:numeric(14,6);not null" json:"valor"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ValorIndice{})
}
