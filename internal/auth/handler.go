package auth

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/gasparhdz/lex-sub000/internal/advogado"
	"github.com/gasparhdz/lex-sub000/internal/utils"
)

// LoginHandler autentica o advogado por e-mail e senha e devolve o JWT.
func LoginHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			Senha string `json:"senha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON mal formado", http.StatusBadRequest)
			return
		}

		user, err := advogado.NewRepository(db).FindByEmail(req.Email)
		if err != nil {
			http.Error(w, "Usuário não encontrado", http.StatusUnauthorized)
			return
		}

		if !utils.VerificarSenha(user.Senha, req.Senha) {
			http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
			return
		}

		token, err := GerarToken(user.ID, user.IsAdmin)
		if err != nil {
			http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}
