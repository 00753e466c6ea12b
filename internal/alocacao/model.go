// internal/alocacao/model.go
package alocacao

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de alvo aceitos por uma alocação.
const (
	AlvoParcela = "PARCELA"
	AlvoDespesa = "DESPESA"
)

// Alocacao registra a aplicação de parte de um recebimento contra UMA
// parcela ou UMA despesa (nunca ambas). As linhas são um razão
// append-only: correções inativam a linha (Ativa=false) e criam outra;
// nada é apagado, para que conciliações e auditorias sejam reconstruíveis.
type Alocacao struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	RecebimentoID uint  `gorm:"not null;index" json:"recebimentoId"`
	ParcelaID     *uint `gorm:"index" json:"parcelaId,omitempty"`
	DespesaID     *uint `gorm:"index" json:"despesaId,omitempty"`

	// Valor aplicado em BRL, sempre preenchido.
	ValorBRL decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorBrl"`

	// Índice usado na conversão e equivalente em URH derivado do próprio
	// ValorBRL, preenchidos apenas quando o alvo é denominado em URH.
	ValorIndice *decimal.Decimal `gorm:"type:numeric(14,6)" json:"valorIndice,omitempty"`
	ValorURH    *decimal.Decimal `gorm:"type:numeric(20,6)" json:"valorUrh,omitempty"`

	Ativa  bool   `gorm:"not null;default:true;index" json:"ativa"`
	Motivo string `gorm:"size:100" json:"motivo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName fixa o nome da tabela consultado por outros pacotes via
// Table("alocacoes") (ver DESIGN.md), evitando a pluralização padrão.
func (Alocacao) TableName() string { return "alocacoes" }

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Alocacao{})
}
