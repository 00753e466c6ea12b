// internal/recebimento/model.go
package recebimento

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recebimento representa uma entrada de pagamento do cliente, a ser
// distribuída entre parcelas e despesas. O valor total é em BRL; quando
// o pagamento foi declarado em URH, o índice da data do recebimento fica
// capturado e o total em BRL é derivado dele.
type Recebimento struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClienteID uint `gorm:"not null;index" json:"clienteId"`

	Data     time.Time       `gorm:"not null" json:"data"`
	ValorBRL decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorBrl"`

	// Declaração original em URH (opcional) e o índice capturado na data.
	ValorURH    *decimal.Decimal `gorm:"type:numeric(20,6)" json:"valorUrh,omitempty"`
	ValorIndice *decimal.Decimal `gorm:"type:numeric(14,6)" json:"valorIndice,omitempty"`

	Observacao string `gorm:"size:255" json:"observacao"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Recebimento{})
}
