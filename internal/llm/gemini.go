package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/AlvesGus/finbot/internal/common"
	"github.com/AlvesGus/finbot/internal/model"
)

// geminiExtractor is the primary provider adapter. It reads the current
// credential from the shared keyring on every call, so rotations done by
// the coordinator take effect on the next attempt.
type geminiExtractor struct {
	keys  *Keyring
	model string
}

// NewGemini creates the Gemini-backed extractor.
func NewGemini(keys *Keyring, cfg Config) (Extractor, error) {
	if keys == nil || keys.Len() == 0 {
		return nil, fmt.Errorf("gemini: %w", common.ErrNoCredentials)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiExtractor{
		keys:  keys,
		model: modelName,
	}, nil
}

// Extract submits the statement to Gemini and parses the answer. The
// client is rebuilt per call because the API key may have rotated since
// the previous attempt.
func (g *geminiExtractor) Extract(ctx context.Context, text string) (*model.Movement, error) {
	key, err := g.keys.Current()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, wrapProviderError(err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(geminiPrompt(text)), nil)
	if err != nil {
		return nil, wrapProviderError(err)
	}

	// A response with no candidates yields an empty string; the parser
	// turns that into a normal "no data" outcome.
	return extractJSON(resp.Text()), nil
}

// geminiPrompt embeds the statement in the extraction instructions. One
// worked example anchors the output formatting; the labels are kept in
// Portuguese because they flow verbatim into the backend category field.
func geminiPrompt(text string) string {
	return fmt.Sprintf(`Analise a frase abaixo e retorne apenas um JSON com as seguintes informações:
{
  "tMovimentacao": "Gasto" | "Receita" | "Transferência",
  "valorMovimentacao": número,
  "local": "onde ocorreu",
  "data": "DD/MM/YYYY",
  "tipo": "categoria (alimentação, lazer, transporte, etc)"
}

Exemplo de entrada: "Gastei 80 reais no posto hoje"
Resposta esperada:
{
  "tMovimentacao": "Gasto",
  "valorMovimentacao": 80,
  "local": "posto",
  "data": "09/11/2025",
  "tipo": "Transporte"
}

Frase: "%s"
`, text)
}
