package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("%w: status 500", ErrBackendUnavailable)
	err := NewUserError("⚠️ Erro ao salvar a transação no servidor.", inner)

	assert.Contains(t, err.Error(), "Erro ao salvar")
	assert.Contains(t, err.Error(), "status 500")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("mensagem", nil)
	assert.Equal(t, "mensagem", err.Error())
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewUserError("⚠️ Servidor indisponível.", errors.New("dial tcp")))
	assert.Equal(t, "⚠️ Servidor indisponível.", UserMessage(wrapped, "fallback"))

	assert.Equal(t, "fallback", UserMessage(errors.New("plain"), "fallback"))
}
