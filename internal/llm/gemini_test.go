package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlvesGus/finbot/internal/common"
)

func TestNewGemini(t *testing.T) {
	keys := NewKeyring([]string{"a", "b"})

	client, err := NewGemini(keys, Config{})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = NewGemini(NewKeyring(nil), Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoCredentials))

	_, err = NewGemini(nil, Config{})
	require.Error(t, err)
}

func TestGeminiDefaultModel(t *testing.T) {
	client, err := NewGemini(NewKeyring([]string{"a"}), Config{})
	require.NoError(t, err)

	g, ok := client.(*geminiExtractor)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", g.model)

	client, err = NewGemini(NewKeyring([]string{"a"}), Config{Model: "gemini-2.0-flash"})
	require.NoError(t, err)
	g, ok = client.(*geminiExtractor)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", g.model)
}

func TestGeminiPrompt(t *testing.T) {
	prompt := geminiPrompt("Gastei 80 reais no posto hoje")

	// Schema fields and labels the downstream record depends on.
	assert.Contains(t, prompt, `"tMovimentacao"`)
	assert.Contains(t, prompt, `"valorMovimentacao"`)
	assert.Contains(t, prompt, `"local"`)
	assert.Contains(t, prompt, `"data"`)
	assert.Contains(t, prompt, `"tipo"`)
	assert.Contains(t, prompt, `"Gasto" | "Receita" | "Transferência"`)

	// The worked example that anchors formatting.
	assert.Contains(t, prompt, "Exemplo de entrada")

	// The user statement itself.
	assert.Contains(t, prompt, `Frase: "Gastei 80 reais no posto hoje"`)
}

func TestGroqPrompt(t *testing.T) {
	prompt := groqPrompt("Recebi 500 reais ontem")

	assert.Contains(t, prompt, `"Entrada" | "Saida" | "Investimento"`)
	assert.Contains(t, prompt, `Frase: "Recebi 500 reais ontem"`)
	assert.NotContains(t, prompt, "Exemplo", "fallback prompt carries no worked example")
}
