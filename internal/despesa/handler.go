// internal/despesa/handler.go
package despesa

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// DTO usado no POST /despesas
type DespesaCreateDTO struct {
	ClienteID      uint            `json:"clienteId"`
	CasoID         uint            `json:"casoId"`
	Descricao      string          `json:"descricao"`
	Valor          decimal.Decimal `json:"valor"`
	DataLancamento string          `json:"dataLancamento"` // AAAA-MM-DD

	// Lançamento em moeda estrangeira (opcional): informa os três campos
	// e o Valor em BRL é derivado do câmbio capturado.
	MoedaEstrangeira *string          `json:"moedaEstrangeira"`
	ValorEstrangeiro *decimal.Decimal `json:"valorEstrangeiro"`
	TaxaCambio       *decimal.Decimal `json:"taxaCambio"`
}

// POST /despesas
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in DespesaCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	dataLancamento, err := time.Parse("2006-01-02", in.DataLancamento)
	if err != nil {
		http.Error(w, "Data de lançamento inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	valor := in.Valor
	if in.MoedaEstrangeira != nil {
		if in.ValorEstrangeiro == nil || in.TaxaCambio == nil || !in.TaxaCambio.IsPositive() {
			http.Error(w, "Lançamento em moeda estrangeira exige valorEstrangeiro e taxaCambio positiva", http.StatusBadRequest)
			return
		}
		// converte antes do arredondamento final
		valor = in.ValorEstrangeiro.Mul(*in.TaxaCambio)
	}
	valor = moeda.Arredondar(valor, moeda.UnidadeBRL)
	if !valor.IsPositive() {
		http.Error(w, "Valor da despesa deve ser positivo", http.StatusBadRequest)
		return
	}

	d := &Despesa{
		ClienteID:        in.ClienteID,
		CasoID:           in.CasoID,
		Descricao:        in.Descricao,
		Valor:            valor,
		DataLancamento:   dataLancamento,
		MoedaEstrangeira: in.MoedaEstrangeira,
		ValorEstrangeiro: in.ValorEstrangeiro,
		TaxaCambio:       in.TaxaCambio,
		Status:           StatusPendente,
	}
	if err := h.Repo.Create(d); err != nil {
		http.Error(w, "Erro ao criar despesa", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(d)
}

// GET /despesas?casoId=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	var casoID uint
	if q := r.URL.Query().Get("casoId"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "casoId inválido", http.StatusBadRequest)
			return
		}
		casoID = uint(v)
	}

	lista, err := h.Repo.List(casoID)
	if err != nil {
		http.Error(w, "Erro ao buscar despesas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /despesas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da despesa inválido", http.StatusBadRequest)
		return
	}

	d, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Despesa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar despesa", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d)
}
