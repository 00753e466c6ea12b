// internal/parcela/model.go
package parcela

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

// Status possíveis de uma parcela. "Anulada" e "Isenta" são sempre
// explícitos (decisão do advogado), nunca derivados do vencimento.
const (
	StatusPendente = "Pendente"
	StatusParcial  = "Parcial"
	StatusQuitada  = "Quitada"
	StatusAnulada  = "Anulada"
	StatusIsenta   = "Isenta"
)

// Parcela representa uma fatia numerada do plano de parcelamento de um
// honorário. O valor é nativo na unidade do honorário (BRL ou URH).
type Parcela struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	PlanoID uint `gorm:"not null;index" json:"planoId"`
	Numero  int  `gorm:"not null" json:"numero"`

	DataVencimento time.Time       `gorm:"not null" json:"dataVencimento"`
	Valor          decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"valor"`
	Unidade        moeda.Unidade   `gorm:"size:3;not null" json:"unidade"`

	// Valor do índice capturado para esta parcela. Preenchido na criação
	// (política fixada na origem) ou no primeiro pagamento (flutuante).
	ValorIndice *decimal.Decimal `gorm:"type:numeric(14,6)" json:"valorIndice,omitempty"`

	Status    string    `gorm:"size:50;not null;default:'Pendente';index" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Parcela{})
}

// Ativa informa se a parcela conta para saldos e derivação de status.
func (p *Parcela) Ativa() bool {
	return p.Status != StatusAnulada && p.Status != StatusIsenta
}

// Vencida é um indicador derivado, nunca persistido: parcela ativa, não
// quitada, com vencimento anterior à data de referência.
func (p *Parcela) Vencida(referencia time.Time) bool {
	return p.Ativa() && p.Status != StatusQuitada && p.DataVencimento.Before(referencia)
}
