// internal/honorario/handler.go
package honorario

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

// DTO usado no POST /honorarios
type HonorarioCreateDTO struct {
	ClienteID             uint             `json:"clienteId"`
	CasoID                uint             `json:"casoId"`
	Descricao             string           `json:"descricao"`
	Valor                 decimal.Decimal  `json:"valor"`
	Unidade               moeda.Unidade    `json:"unidade"`
	ValorIndiceReferencia *decimal.Decimal `json:"valorIndiceReferencia"`
	DataRegulacao         string           `json:"dataRegulacao"` // AAAA-MM-DD
}

// POST /honorarios
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in HonorarioCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if !moeda.Valida(in.Unidade) {
		http.Error(w, "Unidade inválida. Use 'BRL' ou 'URH'.", http.StatusBadRequest)
		return
	}
	if !in.Valor.IsPositive() {
		http.Error(w, "Valor do honorário deve ser positivo", http.StatusBadRequest)
		return
	}
	dataRegulacao, err := time.Parse("2006-01-02", in.DataRegulacao)
	if err != nil {
		http.Error(w, "Data de regulação inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	hon := &Honorario{
		ClienteID:             in.ClienteID,
		CasoID:                in.CasoID,
		Descricao:             in.Descricao,
		Valor:                 moeda.Arredondar(in.Valor, in.Unidade),
		Unidade:               in.Unidade,
		ValorIndiceReferencia: in.ValorIndiceReferencia,
		DataRegulacao:         dataRegulacao,
		Status:                StatusPendente,
	}
	if err := h.Repo.Create(hon); err != nil {
		http.Error(w, "Erro ao criar honorário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(hon)
}

// GET /honorarios?casoId=
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
		http.Error(w, "Erro ao buscar honorários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /honorarios/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do honorário inválido", http.StatusBadRequest)
		return
	}

	hon, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Honorário não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar honorário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(hon)
}
