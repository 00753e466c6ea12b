// internal/honorario/model.go
package honorario

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

const (
	StatusPendente = "Pendente"
	StatusParcial  = "Parcial"
	StatusQuitado  = "Quitado"
)

// Honorario representa um crédito de honorários contra um cliente/caso.
// O total nativo é medido em exatamente uma unidade (BRL ou URH); o valor
// de índice de referência, quando presente, foi capturado na regulação.
// Cadastro de clientes e casos é responsabilidade de outro sistema: aqui
// ficam apenas as chaves.
type Honorario struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClienteID uint `gorm:"not null;index" json:"clienteId"`
	CasoID    uint `gorm:"not null;index" json:"casoId"`

	Descricao string `gorm:"size:255" json:"descricao"`

	Valor   decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"valor"`
	Unidade moeda.Unidade   `gorm:"size:3;not null" json:"unidade"`

	// Índice de referência capturado na regulação (opcional; usado como
	// conversão de apoio quando a parcela ainda não capturou o próprio).
	ValorIndiceReferencia *decimal.Decimal `gorm:"type:numeric(14,6)" json:"valorIndiceReferencia,omitempty"`
	DataRegulacao         time.Time        `gorm:"not null" json:"dataRegulacao"`

	Status string `gorm:"size:50;not null;default:'Pendente';index" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Honorario{})
}
