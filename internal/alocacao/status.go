// internal/alocacao/status.go
package alocacao

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/despesa"
	"github.com/gasparhdz/lex-sub000/internal/honorario"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/plano"
)

// DerivarStatusParcela recalcula o status da parcela a partir da soma de
// suas alocações ativas na unidade nativa. Para parcelas em URH a soma usa
// o equivalente gravado em cada alocação (com o índice capturado nela),
// nunca uma reconversão com índice único. "Anulada" e "Isenta" são estados
// explícitos e não são tocados aqui; atraso é indicador derivado
// (Parcela.Vencida), não um status armazenado.
func DerivarStatusParcela(tx *gorm.DB, p *parcela.Parcela) (string, error) {
	if !p.Ativa() {
		return p.Status, nil
	}

	alocs := NewRepository(tx)
	var (
		somaNativa decimal.Decimal
		err        error
	)
	if p.Unidade == moeda.UnidadeURH {
		somaNativa, err = alocs.SumURHByParcela(p.ID)
	} else {
		somaNativa, err = alocs.SumBRLByParcela(p.ID)
	}
	if err != nil {
		return "", err
	}

	tol := moeda.Tolerancia(p.Unidade)
	novo := parcela.StatusPendente
	switch {
	case p.Valor.Sub(somaNativa).LessThanOrEqual(tol):
		novo = parcela.StatusQuitada
	case somaNativa.GreaterThan(tol):
		novo = parcela.StatusParcial
	}

	if novo != p.Status {
		if err := parcela.NewRepository(tx).UpdateStatus(p.ID, novo); err != nil {
			return "", err
		}
		p.Status = novo
	}
	return novo, nil
}

// DerivarStatusHonorarioDaParcela localiza o honorário dono do plano da
// parcela e rederiva o seu status.
func DerivarStatusHonorarioDaParcela(tx *gorm.DB, p *parcela.Parcela) error {
	var pl plano.Plano
	if err := tx.Select("id", "honorario_id").First(&pl, p.PlanoID).Error; err != nil {
		return err
	}
	return DerivarStatusHonorario(tx, pl.HonorarioID)
}

// DerivarStatusHonorario agrega as parcelas do plano ativo do honorário e
// deriva Pendente/Parcial/Quitado. O honorário é considerado quitado se o
// resíduo cabe na tolerância em QUALQUER das duas medidas, a nativa ou a
// de moeda: a dívida foi paga na unidade em que os pagamentos foram de
// fato medidos, ainda que a secundária carregue resíduo de conversão.
func DerivarStatusHonorario(tx *gorm.DB, honorarioID uint) error {
	hons := honorario.NewRepository(tx)
	hon, err := hons.FindByID(honorarioID)
	if err != nil {
		return err
	}

	ativo, err := plano.NewRepository(tx).FindAtivoByHonorario(honorarioID)
	if err != nil {
		return err
	}
	if ativo == nil {
		// Sem plano ativo não há o que agregar; o status permanece.
		return nil
	}

	alocs := NewRepository(tx)
	emURH := hon.Unidade == moeda.UnidadeURH
	tolNativa := moeda.Tolerancia(hon.Unidade)

	var (
		totalNativo   decimal.Decimal
		alocadoNativo decimal.Decimal
		totalBRL      decimal.Decimal
		alocadoBRL    decimal.Decimal
		brlConhecido  = true
	)

	for i := range ativo.Parcelas {
		parc := &ativo.Parcelas[i]
		if !parc.Ativa() {
			continue
		}
		totalNativo = totalNativo.Add(parc.Valor)

		var somaNativa decimal.Decimal
		if emURH {
			somaNativa, err = alocs.SumURHByParcela(parc.ID)
		} else {
			somaNativa, err = alocs.SumBRLByParcela(parc.ID)
		}
		if err != nil {
			return err
		}
		alocadoNativo = alocadoNativo.Add(somaNativa)

		somaBRL, err := alocs.SumBRLByParcela(parc.ID)
		if err != nil {
			return err
		}
		alocadoBRL = alocadoBRL.Add(somaBRL)

		// Medida em moeda: converte o total da parcela com o índice
		// capturado nela (ou, na falta, com o de referência da regulação).
		idx := parc.ValorIndice
		if idx == nil {
			idx = hon.ValorIndiceReferencia
		}
		if emURH && idx == nil {
			brlConhecido = false
			continue
		}
		var vBRL decimal.Decimal
		if emURH {
			vBRL, err = moeda.ParaMoeda(parc.Valor, moeda.UnidadeURH, *idx)
		} else {
			vBRL = moeda.Arredondar(parc.Valor, moeda.UnidadeBRL)
		}
		if err != nil {
			return err
		}
		totalBRL = totalBRL.Add(vBRL)
	}

	if totalNativo.IsZero() && alocadoNativo.IsZero() {
		// plano sem parcelas ativas: nada a derivar
		return nil
	}

	residuoNativo := totalNativo.Sub(alocadoNativo)
	quitado := residuoNativo.LessThanOrEqual(tolNativa)
	if !quitado && brlConhecido {
		quitado = totalBRL.Sub(alocadoBRL).LessThanOrEqual(moeda.ToleranciaBRL)
	}

	novo := honorario.StatusPendente
	switch {
	case quitado:
		novo = honorario.StatusQuitado
	case alocadoNativo.GreaterThan(tolNativa):
		novo = honorario.StatusParcial
	}

	if novo != hon.Status {
		return hons.UpdateStatus(hon.ID, novo)
	}
	return nil
}

// DerivarStatusDespesa recalcula o status da despesa a partir das suas
// alocações ativas (sempre em BRL).
func DerivarStatusDespesa(tx *gorm.DB, d *despesa.Despesa) (string, error) {
	soma, err := NewRepository(tx).SumBRLByDespesa(d.ID)
	if err != nil {
		return "", err
	}

	novo := despesa.StatusPendente
	switch {
	case d.Valor.Sub(soma).LessThanOrEqual(moeda.ToleranciaBRL):
		novo = despesa.StatusQuitada
	case soma.GreaterThan(moeda.ToleranciaBRL):
		novo = despesa.StatusParcial
	}

	if novo != d.Status {
		if err := despesa.NewRepository(tx).UpdateStatus(d.ID, novo); err != nil {
			return "", err
		}
		d.Status = novo
	}
	return novo, nil
}
