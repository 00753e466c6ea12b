// internal/conciliacao/service_test.go
package conciliacao_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gasparhdz/lex-sub000/internal/alocacao"
	"github.com/gasparhdz/lex-sub000/internal/conciliacao"
	"github.com/gasparhdz/lex-sub000/internal/despesa"
	"github.com/gasparhdz/lex-sub000/internal/honorario"
	"github.com/gasparhdz/lex-sub000/internal/indice"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/plano"
	"github.com/gasparhdz/lex-sub000/internal/recebimento"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, indice.Migrate(db))
	require.NoError(t, honorario.Migrate(db))
	require.NoError(t, plano.Migrate(db))
	require.NoError(t, parcela.Migrate(db))
	require.NoError(t, despesa.Migrate(db))
	require.NoError(t, recebimento.Migrate(db))
	require.NoError(t, alocacao.Migrate(db))
	return db
}

func dia(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func criaParcelasURH(t *testing.T, db *gorm.DB, valorIndice string, valores ...string) []parcela.Parcela {
	t.Helper()

	total := decimal.Zero
	for _, v := range valores {
		total = total.Add(dec(v))
	}
	hon := &honorario.Honorario{
		ClienteID:     1,
		CasoID:        1,
		Valor:         total,
		Unidade:       moeda.UnidadeURH,
		DataRegulacao: dia("2024-01-10"),
		Status:        honorario.StatusPendente,
	}
	require.NoError(t, honorario.NewRepository(db).Create(hon))

	pl := &plano.Plano{
		HonorarioID:   hon.ID,
		DataInicio:    dia("2024-02-01"),
		Periodicidade: "MENSAL",
		IntervaloDias: 30,
		Politica:      plano.PoliticaFixadaNaOrigem,
		QtdParcelas:   len(valores),
		Status:        plano.StatusAtivo,
	}
	require.NoError(t, plano.NewRepository(db).Create(pl))

	idx := dec(valorIndice)
	parcelas := make([]*parcela.Parcela, 0, len(valores))
	for i, v := range valores {
		parcelas = append(parcelas, &parcela.Parcela{
			PlanoID:        pl.ID,
			Numero:         i + 1,
			DataVencimento: dia("2024-02-01").AddDate(0, 0, i*30),
			Valor:          dec(v),
			Unidade:        moeda.UnidadeURH,
			ValorIndice:    &idx,
			Status:         parcela.StatusPendente,
		})
	}
	require.NoError(t, parcela.NewRepository(db).CreateInBatch(parcelas))

	criadas, err := parcela.NewRepository(db).ListByPlanoID(pl.ID)
	require.NoError(t, err)
	return criadas
}

func criaRecebimento(t *testing.T, db *gorm.DB, valorBRL string) *recebimento.Recebimento {
	t.Helper()
	rec := &recebimento.Recebimento{
		ClienteID: 1,
		Data:      dia("2024-02-10"),
		ValorBRL:  dec(valorBRL),
	}
	require.NoError(t, recebimento.NewRepository(db).Create(rec))
	return rec
}

func criaDespesa(t *testing.T, db *gorm.DB, valor string) *despesa.Despesa {
	t.Helper()
	d := &despesa.Despesa{
		ClienteID:      1,
		CasoID:         1,
		Descricao:      "Custas processuais",
		Valor:          dec(valor),
		DataLancamento: dia("2024-02-01"),
		Status:         despesa.StatusPendente,
	}
	require.NoError(t, despesa.NewRepository(db).Create(d))
	return d
}

func idsDe(parcelas []parcela.Parcela) []uint {
	ids := make([]uint, len(parcelas))
	for i := range parcelas {
		ids[i] = parcelas[i].ID
	}
	return ids
}

func TestConciliarVarreduraEmOrdemDeVencimento(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	// 100 URH em 3 parcelas, índice 500: 16666,67 + 16666,67 + 16666,67 em
	// moeda. O recebimento de 17000 quita a primeira e sobra para a segunda.
	parcelas := criaParcelasURH(t, db, "500", "33.333333", "33.333333", "33.333334")
	rec := criaRecebimento(t, db, "17000.00")

	res, err := svc.Conciliar(rec.ID, idsDe(parcelas), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Adicionadas)
	assert.Equal(t, 0, res.Removidas)
	require.Len(t, res.Alocacoes, 2)

	assert.Equal(t, parcelas[0].ID, *res.Alocacoes[0].ParcelaID)
	assert.Equal(t, "16666.67", res.Alocacoes[0].ValorBRL.StringFixed(2))
	assert.Equal(t, parcelas[1].ID, *res.Alocacoes[1].ParcelaID)
	assert.Equal(t, "333.33", res.Alocacoes[1].ValorBRL.StringFixed(2))

	parcs := parcela.NewRepository(db)
	p1, err := parcs.FindByID(parcelas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, parcela.StatusQuitada, p1.Status)
	p2, err := parcs.FindByID(parcelas[1].ID)
	require.NoError(t, err)
	assert.Equal(t, parcela.StatusParcial, p2.Status)
	p3, err := parcs.FindByID(parcelas[2].ID)
	require.NoError(t, err)
	assert.Equal(t, parcela.StatusPendente, p3.Status)
}

func TestConciliarEhIdempotente(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	parcelas := criaParcelasURH(t, db, "500", "33.333333", "33.333333", "33.333334")
	rec := criaRecebimento(t, db, "17000.00")

	primeiro, err := svc.Conciliar(rec.ID, idsDe(parcelas), nil)
	require.NoError(t, err)
	require.Equal(t, 2, primeiro.Adicionadas)

	// mesma chamada de novo: diff vazio, conjunto ativo inalterado
	segundo, err := svc.Conciliar(rec.ID, idsDe(parcelas), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, segundo.Adicionadas)
	assert.Equal(t, 0, segundo.Removidas)
	assert.Len(t, segundo.Alocacoes, len(primeiro.Alocacoes))
}

func TestConciliarRemoveParcelaForaDoConjunto(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	parcelas := criaParcelasURH(t, db, "500", "10", "10")
	rec := criaRecebimento(t, db, "6000.00")

	res, err := svc.Conciliar(rec.ID, idsDe(parcelas), nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Adicionadas)

	// reconcilia apenas com a segunda: a alocação da primeira é desfeita e
	// o valor liberado flui para a segunda
	res, err = svc.Conciliar(rec.ID, []uint{parcelas[1].ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removidas)
	assert.Equal(t, 1, res.Adicionadas)

	parcs := parcela.NewRepository(db)
	p1, err := parcs.FindByID(parcelas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, parcela.StatusPendente, p1.Status)

	p2, err := parcs.FindByID(parcelas[1].ID)
	require.NoError(t, err)
	assert.Equal(t, parcela.StatusQuitada, p2.Status)

	soma, err := alocacao.NewRepository(db).SumBRLByParcela(parcelas[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", soma.StringFixed(2))
}

func TestConciliarDespesaComoEstadoExplicito(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	d := criaDespesa(t, db, "500.00")
	rec := criaRecebimento(t, db, "1000.00")

	// estado-alvo inicial: 200 contra a despesa
	res, err := svc.Conciliar(rec.ID, nil, []conciliacao.DespesaDesejada{{DespesaID: d.ID, Valor: dec("200.00")}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Adicionadas)

	alocs := alocacao.NewRepository(db)
	soma, err := alocs.SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", soma.StringFixed(2))

	// reduzir o alvo para 150 refaz as linhas da despesa
	res, err = svc.Conciliar(rec.ID, nil, []conciliacao.DespesaDesejada{{DespesaID: d.ID, Valor: dec("150.00")}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removidas)
	assert.Equal(t, 1, res.Adicionadas)
	soma, err = alocs.SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", soma.StringFixed(2))

	// subir o alvo para 180 apenas completa a diferença
	res, err = svc.Conciliar(rec.ID, nil, []conciliacao.DespesaDesejada{{DespesaID: d.ID, Valor: dec("180.00")}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Removidas)
	assert.Equal(t, 1, res.Adicionadas)
	soma, err = alocs.SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "180.00", soma.StringFixed(2))

	// tirar a despesa do conjunto desfaz tudo
	res, err = svc.Conciliar(rec.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removidas)
	assert.Equal(t, 0, res.Adicionadas)
	soma, err = alocs.SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.True(t, soma.IsZero())

	atual, err := despesa.NewRepository(db).FindByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, despesa.StatusPendente, atual.Status)
}

func TestConciliarDespesaLimitadaPermaneceIdempotente(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	d := criaDespesa(t, db, "500.00")
	rec := criaRecebimento(t, db, "100.00")

	// alvo acima do saldo do recebimento: aplica só o que há
	desejado := []conciliacao.DespesaDesejada{{DespesaID: d.ID, Valor: dec("200.00")}}
	res, err := svc.Conciliar(rec.ID, nil, desejado)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Adicionadas)

	soma, err := alocacao.NewRepository(db).SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", soma.StringFixed(2))

	// repetir com o mesmo alvo não refaz nem duplica nada
	res, err = svc.Conciliar(rec.ID, nil, desejado)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Adicionadas)
	assert.Equal(t, 0, res.Removidas)
	assert.Len(t, res.Alocacoes, 1)
}

func TestConciliarParcelasRepetidasNoConjunto(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	parcelas := criaParcelasURH(t, db, "500", "10", "10")
	rec := criaRecebimento(t, db, "6000.00")

	// o mesmo ID repetido conta uma vez só
	ids := []uint{parcelas[0].ID, parcelas[0].ID, parcelas[1].ID}
	res, err := svc.Conciliar(rec.ID, ids, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Adicionadas)

	soma, err := alocacao.NewRepository(db).SumBRLByParcela(parcelas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", soma.StringFixed(2))

	soma, err = alocacao.NewRepository(db).SumBRLByRecebimento(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "6000.00", soma.StringFixed(2))
}

func TestConciliarParcelaInexistente(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	rec := criaRecebimento(t, db, "1000.00")

	_, err := svc.Conciliar(rec.ID, []uint{9999}, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// falha total: nenhuma alocação sobrevive
	ativas, err := alocacao.NewRepository(db).ListAtivasByRecebimento(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, ativas)
}

func TestConciliarDespesasAntesDasParcelas(t *testing.T) {
	db := newTestDB(t)
	svc := conciliacao.NewService(db)

	parcelas := criaParcelasURH(t, db, "500", "10")
	d := criaDespesa(t, db, "300.00")
	rec := criaRecebimento(t, db, "1000.00")

	res, err := svc.Conciliar(rec.ID, idsDe(parcelas),
		[]conciliacao.DespesaDesejada{{DespesaID: d.ID, Valor: dec("300.00")}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Adicionadas)

	// a despesa recebe o valor declarado; a varredura fica com o restante
	alocs := alocacao.NewRepository(db)
	somaDespesa, err := alocs.SumBRLByDespesa(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", somaDespesa.StringFixed(2))

	somaParcela, err := alocs.SumBRLByParcela(parcelas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "700.00", somaParcela.StringFixed(2))
}
