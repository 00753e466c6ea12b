// internal/plano/handler.go
package plano

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/indice"
)

type Handler struct {
	Service *Service
	Repo    *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Service: NewService(db), Repo: NewRepository(db)}
}

// DTO usado no POST /honorarios/{id}/planos
type PlanoCreateDTO struct {
	QtdParcelas   int    `json:"qtdParcelas"`
	Periodicidade string `json:"periodicidade"` // SEMANAL..ANUAL
	DataInicio    string `json:"dataInicio"`    // AAAA-MM-DD
	Politica      string `json:"politica"`      // se vazio, assume FIXADA_NA_ORIGEM
}

// POST /honorarios/{id}/planos
func (h *Handler) Gerar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do honorário inválido", http.StatusBadRequest)
		return
	}

	var in PlanoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if in.Politica == "" {
		in.Politica = PoliticaFixadaNaOrigem
	}
	dataInicio, err := time.Parse("2006-01-02", in.DataInicio)
	if err != nil {
		http.Error(w, "Data de início inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	novo, err := h.Service.Gerar(uint(id), EntradaPlano{
		QtdParcelas:   in.QtdParcelas,
		Periodicidade: in.Periodicidade,
		DataInicio:    dataInicio,
		Politica:      in.Politica,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrParametrosInvalidos):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Honorário não encontrado", http.StatusNotFound)
		case errors.Is(err, indice.ErrSemValorIndice):
			http.Error(w, "Nenhum valor de índice publicado", http.StatusInternalServerError)
		default:
			http.Error(w, "Erro ao gerar plano de parcelamento", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(novo)
}

// GET /honorarios/{id}/planos
func (h *Handler) ListarPorHonorario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do honorário inválido", http.StatusBadRequest)
		return
	}

	lista, err := h.Repo.ListByHonorario(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar planos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /planos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do plano inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Plano não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar plano", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}
