// internal/indice/handler.go
package indice

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// DTO usado no POST /valores-indice
type ValorIndiceCreateDTO struct {
	Data  string          `json:"data"` // formato AAAA-MM-DD
	Valor decimal.Decimal `json:"valor"`
}

// POST /valores-indice
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in ValorIndiceCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	data, err := time.Parse("2006-01-02", in.Data)
	if err != nil {
		http.Error(w, "Data inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}
	if !in.Valor.IsPositive() {
		http.Error(w, "Valor do índice deve ser positivo", http.StatusBadRequest)
		return
	}

	vi := &ValorIndice{Data: data, Valor: in.Valor}
	if err := h.Repo.Create(vi); err != nil {
		http.Error(w, "Erro ao registrar valor do índice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(vi)
}

// GET /valores-indice
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	valores, err := h.Repo.List()
	if err != nil {
		http.Error(w, "Erro ao buscar valores do índice", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(valores)
}

// GET /valores-indice/vigente?data=AAAA-MM-DD
func (h *Handler) Vigente(w http.ResponseWriter, r *http.Request) {
	data := time.Now()
	if q := r.URL.Query().Get("data"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			http.Error(w, "Data inválida (use AAAA-MM-DD)", http.StatusBadRequest)
			return
		}
		data = parsed
	}

	vi, err := h.Repo.VigenteEm(data)
	if err != nil {
		if errors.Is(err, ErrSemValorIndice) {
			http.Error(w, "Nenhum valor de índice publicado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar valor vigente", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(vi)
}
