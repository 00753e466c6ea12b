// internal/recebimento/handler.go
package recebimento

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/indice"
	"github.com/gasparhdz/lex-sub000/internal/moeda"
)

type Handler struct {
	Repo    *Repository
	Indices *indice.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db), Indices: indice.NewRepository(db)}
}

// DTO usado no POST /recebimentos. Informe valorBrl OU valorUrh: quando o
// pagamento é declarado em URH, o índice vigente na data é capturado e o
// total em BRL é derivado dele.
type RecebimentoCreateDTO struct {
	ClienteID  uint             `json:"clienteId"`
	Data       string           `json:"data"` // AAAA-MM-DD
	ValorBRL   *decimal.Decimal `json:"valorBrl"`
	ValorURH   *decimal.Decimal `json:"valorUrh"`
	Observacao string           `json:"observacao"`
}

// POST /recebimentos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in RecebimentoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	data, err := time.Parse("2006-01-02", in.Data)
	if err != nil {
		http.Error(w, "Data inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	rec := &Recebimento{
		ClienteID:  in.ClienteID,
		Data:       data,
		Observacao: in.Observacao,
	}

	switch {
	case in.ValorURH != nil && in.ValorURH.IsPositive():
		vi, err := h.Indices.VigenteEm(data)
		if err != nil {
			if errors.Is(err, indice.ErrSemValorIndice) {
				http.Error(w, "Nenhum valor de índice publicado", http.StatusInternalServerError)
				return
			}
			http.Error(w, "Erro ao buscar valor do índice", http.StatusInternalServerError)
			return
		}
		valorURH := moeda.Arredondar(*in.ValorURH, moeda.UnidadeURH)
		valorBRL, err := moeda.ParaMoeda(valorURH, moeda.UnidadeURH, vi.Valor)
		if err != nil {
			http.Error(w, "Erro ao converter valor em URH", http.StatusInternalServerError)
			return
		}
		rec.ValorURH = &valorURH
		rec.ValorIndice = &vi.Valor
		rec.ValorBRL = valorBRL
	case in.ValorBRL != nil && in.ValorBRL.IsPositive():
		rec.ValorBRL = moeda.Arredondar(*in.ValorBRL, moeda.UnidadeBRL)
	default:
		http.Error(w, "Informe valorBrl ou valorUrh positivo", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Create(rec); err != nil {
		http.Error(w, "Erro ao criar recebimento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(rec)
}

// GET /recebimentos?clienteId=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	var clienteID uint
	if q := r.URL.Query().Get("clienteId"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "clienteId inválido", http.StatusBadRequest)
			return
		}
		clienteID = uint(v)
	}

	lista, err := h.Repo.List(clienteID)
	if err != nil {
		http.Error(w, "Erro ao buscar recebimentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /recebimentos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do recebimento inválido", http.StatusBadRequest)
		return
	}

	rec, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Recebimento não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar recebimento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}
