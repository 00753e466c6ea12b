// internal/plano/model.go
package plano

import (
	"time"

	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/parcela"
)

// Política de valoração do plano: com qual valor de índice as parcelas
// em URH são convertidas para moeda.
const (
	// PoliticaFixadaNaOrigem captura o índice uma única vez, na criação
	// do plano; todas as parcelas nascem com o mesmo valor.
	PoliticaFixadaNaOrigem = "FIXADA_NA_ORIGEM"
	// PoliticaFlutuante deixa o índice em aberto; cada parcela o captura
	// no primeiro pagamento recebido contra ela.
	PoliticaFlutuante = "FLUTUANTE_NA_LIQUIDACAO"
)

const (
	StatusAtivo     = "Ativo"
	StatusEncerrado = "Encerrado"
)

// Plano representa um parcelamento de honorário. Um honorário possui no
// máximo um plano ativo: criar um novo encerra o anterior e dimensiona o
// substituto pelo saldo remanescente.
type Plano struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	HonorarioID uint `gorm:"not null;index" json:"honorarioId"`

	DataInicio    time.Time `gorm:"not null" json:"dataInicio"`
	Periodicidade string    `gorm:"size:20;not null" json:"periodicidade"`
	IntervaloDias int       `gorm:"not null" json:"intervaloDias"`
	Politica      string    `gorm:"size:30;not null" json:"politica"`
	QtdParcelas   int       `gorm:"not null" json:"qtdParcelas"`

	Status string `gorm:"size:50;not null;default:'Ativo';index" json:"status"`

	Parcelas []parcela.Parcela `gorm:"foreignKey:PlanoID;constraint:OnDelete:CASCADE" json:"parcelas"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Plano{})
}
