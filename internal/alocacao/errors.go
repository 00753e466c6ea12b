// internal/alocacao/errors.go
package alocacao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrExcedeDisponivel indica pedido acima do saldo de um dos lados.
	// Use errors.As com *ExcedeDisponivelError para obter o teto.
	ErrExcedeDisponivel = errors.New("alocação excede o saldo disponível")

	// ErrAlvoInvalido indica tipo de alvo fora de {PARCELA, DESPESA} ou
	// alvo que não aceita alocações (parcela anulada/isenta).
	ErrAlvoInvalido = errors.New("alvo de alocação inválido")

	// ErrValorInvalido indica valor solicitado não positivo.
	ErrValorInvalido = errors.New("valor solicitado deve ser positivo")

	// ErrStatusInvalido indica marcação de parcela rejeitada: status fora
	// de {Anulada, Isenta} ou parcela já quitada.
	ErrStatusInvalido = errors.New("marcação de status inválida")
)

// ExcedeDisponivelError carrega o teto calculado para que o chamador
// possa repetir o pedido com um valor corrigido.
type ExcedeDisponivelError struct {
	Solicitado decimal.Decimal
	Teto       decimal.Decimal
}

func (e *ExcedeDisponivelError) Error() string {
	return fmt.Sprintf("alocação excede o saldo disponível: solicitado %s, teto %s",
		e.Solicitado.StringFixed(2), e.Teto.StringFixed(2))
}

func (e *ExcedeDisponivelError) Unwrap() error {
	return ErrExcedeDisponivel
}

// EhConflitoConcorrencia identifica falha de isolamento detectada pelo
// banco no commit; a operação inteira pode ser repetida com segurança.
func EhConflitoConcorrencia(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || // serialization_failure
		strings.Contains(msg, "SQLSTATE 40P01") // deadlock_detected
}
