// internal/despesa/model.go
package despesa

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

const (
	StatusPendente = "Pendente"
	StatusParcial  = "Parcial"
	StatusQuitada  = "Quitada"
)

// Despesa representa um custo reembolsável de um caso. O valor nativo é
// sempre em BRL; quando a despesa foi incorrida em moeda estrangeira, o
// câmbio do dia do lançamento fica capturado junto para auditoria.
type Despesa struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClienteID uint `gorm:"not null;index" json:"clienteId"`
	CasoID    uint `gorm:"not null;index" json:"casoId"`

	Descricao      string          `gorm:"size:255" json:"descricao"`
	Valor          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valor"`
	DataLancamento time.Time       `gorm:"not null" json:"dataLancamento"`

	// Origem em moeda estrangeira (opcional): valor original e câmbio
	// capturados no lançamento. Valor = ValorEstrangeiro * TaxaCambio.
	MoedaEstrangeira *string          `gorm:"size:3" json:"moedaEstrangeira,omitempty"`
	ValorEstrangeiro *decimal.Decimal `gorm:"type:numeric(14,2)" json:"valorEstrangeiro,omitempty"`
	TaxaCambio       *decimal.Decimal `gorm:"type:numeric(14,6)" json:"taxaCambio,omitempty"`

	Status string `gorm:"size:50;not null;default:'Pendente';index" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Despesa{})
}

// ValorNativo devolve o valor da despesa como montante etiquetado (BRL).
func (d *Despesa) ValorNativo() moeda.Valor {
	return moeda.Valor{Quantia: d.Valor, Unidade: moeda.UnidadeBRL}
}
