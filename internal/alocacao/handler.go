// internal/alocacao/handler.go
package alocacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
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

// DTO usado no POST /alocacoes
type AlocacaoCreateDTO struct {
	RecebimentoID uint            `json:"recebimentoId"`
	TipoAlvo      string          `json:"tipoAlvo"` // PARCELA ou DESPESA
	AlvoID        uint            `json:"alvoId"`
	Valor         decimal.Decimal `json:"valor"` // em BRL
}

// Corpo de erro do 422, com o teto calculado para o chamador corrigir.
type excedeDisponivelDTO struct {
	Erro       string          `json:"erro"`
	Solicitado decimal.Decimal `json:"solicitado"`
	Teto       decimal.Decimal `json:"teto"`
}

// POST /alocacoes
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in AlocacaoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	in.TipoAlvo = strings.ToUpper(in.TipoAlvo)

	a, err := h.Service.Alocar(in.RecebimentoID, in.TipoAlvo, in.AlvoID, in.Valor)
	if err != nil {
		var excede *ExcedeDisponivelError
		switch {
		case errors.As(err, &excede):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(excedeDisponivelDTO{
				Erro:       "Alocação excede o saldo disponível",
				Solicitado: excede.Solicitado,
				Teto:       excede.Teto,
			})
		case errors.Is(err, ErrValorInvalido), errors.Is(err, ErrAlvoInvalido):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Recebimento ou alvo não encontrado", http.StatusNotFound)
		case errors.Is(err, indice.ErrSemValorIndice):
			http.Error(w, "Nenhum valor de índice publicado", http.StatusInternalServerError)
		case EhConflitoConcorrencia(err):
			http.Error(w, "Conflito de concorrência; repita a operação", http.StatusConflict)
		default:
			http.Error(w, "Erro ao registrar alocação", http.StatusInternalServerError)
		}
		return
	}
	if a == nil {
		// valor arredondou para zero: nenhuma alocação criada
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(a)
}

// DTO usado no PATCH /parcelas/{id}/status
type ParcelaStatusDTO struct {
	Status string `json:"status"` // Anulada ou Isenta
}

// PATCH /parcelas/{id}/status
func (h *Handler) AtualizarStatusParcela(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da parcela inválido", http.StatusBadRequest)
		return
	}

	var in ParcelaStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	parc, err := h.Service.MarcarParcela(uint(id), in.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrStatusInvalido):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Parcela não encontrada", http.StatusNotFound)
		case EhConflitoConcorrencia(err):
			http.Error(w, "Conflito de concorrência; repita a operação", http.StatusConflict)
		default:
			http.Error(w, "Erro ao atualizar status da parcela", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(parc)
}

// GET /recebimentos/{id}/alocacoes
func (h *Handler) ListarPorRecebimento(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do recebimento inválido", http.StatusBadRequest)
		return
	}

	lista, err := h.Repo.ListAtivasByRecebimento(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar alocações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /obrigacoes/{tipo}/{id}/resumo
func (h *Handler) ResumoObrigacao(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "ID da obrigação inválido", http.StatusBadRequest)
		return
	}
	tipo := strings.ToUpper(vars["tipo"])

	resumo, err := h.Service.Resumir(tipo, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlvoInvalido):
			http.Error(w, "Tipo de obrigação inválido. Use 'parcela' ou 'despesa'.", http.StatusBadRequest)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Obrigação não encontrada", http.StatusNotFound)
		default:
			http.Error(w, "Erro ao montar resumo", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resumo)
}

// GET /recebimentos/{id}/resumo
func (h *Handler) ResumoRecebimento(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do recebimento inválido", http.StatusBadRequest)
		return
	}

	resumo, err := h.Service.ResumirRecebimento(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Recebimento não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao montar resumo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resumo)
}

// DELETE /recebimentos/{id}
func (h *Handler) CancelarRecebimento(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do recebimento inválido", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.CancelarRecebimento(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Recebimento não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao cancelar recebimento", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
