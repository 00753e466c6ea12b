// internal/conciliacao/handler.go
package conciliacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/alocacao"
	"github.com/gasparhdz/lex-sub000/internal/indice"
)

type Handler struct {
	Service *Service
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Service: NewService(db)}
}

// DTO usado no POST /recebimentos/{id}/conciliar
type ConciliarDTO struct {
	ParcelasDesejadas []uint            `json:"parcelasDesejadas"`
	DespesasDesejadas []DespesaDesejada `json:"despesasDesejadas"`
}

// POST /recebimentos/{id}/conciliar
func (h *Handler) Conciliar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do recebimento inválido", http.StatusBadRequest)
		return
	}

	var in ConciliarDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	resultado, err := h.Service.Conciliar(uint(id), in.ParcelasDesejadas, in.DespesasDesejadas)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Recebimento ou alvo não encontrado", http.StatusNotFound)
		case errors.Is(err, alocacao.ErrAlvoInvalido):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, indice.ErrSemValorIndice):
			http.Error(w, "Nenhum valor de índice publicado", http.StatusInternalServerError)
		case alocacao.EhConflitoConcorrencia(err):
			http.Error(w, "Conflito de concorrência; repita a operação", http.StatusConflict)
		default:
			http.Error(w, "Erro ao conciliar recebimento", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultado)
}
