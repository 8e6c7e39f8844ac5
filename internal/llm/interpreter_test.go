package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlvesGus/finbot/internal/model"
)

// stubExtractor replays a scripted sequence of outcomes and counts calls.
type stubExtractor struct {
	results []stubResult
	calls   int
}

type stubResult struct {
	movement *model.Movement
	err      error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*model.Movement, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.movement, r.err
}

func completeMovement() *model.Movement {
	return &model.Movement{
		MovementType: "Gasto",
		Amount:       80,
		Place:        "posto",
		Date:         "09/11/2025",
		Category:     "Transporte",
	}
}

func newTestInterpreter(primary, fallback Extractor, keys *Keyring) *Interpreter {
	// Zero backoff keeps the retry loop instant under test.
	return NewInterpreter(primary, fallback, keys, 0, slog.Default())
}

func TestInterpretPrimarySuccess(t *testing.T) {
	primary := &stubExtractor{results: []stubResult{{movement: completeMovement()}}}
	fallback := &stubExtractor{results: []stubResult{{movement: nil}}}
	keys := NewKeyring([]string{"a", "b", "c"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "Gastei 80 reais no posto hoje")
	require.NoError(t, err)
	require.NotNil(t, mv)

	assert.Equal(t, "Gasto", mv.MovementType)
	assert.InDelta(t, 80.0, mv.Amount, 0.001)
	assert.Equal(t, "posto", mv.Place)
	assert.Equal(t, "09/11/2025", mv.Date)
	assert.Equal(t, "Transporte", mv.Category)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls, "fallback must not run after a complete primary record")
}

func TestInterpretRateLimitedPrimaryFallsBack(t *testing.T) {
	rateLimited := stubResult{err: errors.New("groq API error (status 429): quota")}
	primary := &stubExtractor{results: []stubResult{rateLimited}}
	fallback := &stubExtractor{results: []stubResult{{movement: completeMovement()}}}
	keys := NewKeyring([]string{"a", "b", "c"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "Gastei 80 reais no posto hoje")
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.Equal(t, "posto", mv.Place)

	// Primary was tried once per credential, fallback exactly once.
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestInterpretRotationVisitsEveryCredential(t *testing.T) {
	rateLimited := stubResult{err: errors.New("429")}
	primary := &stubExtractor{results: []stubResult{rateLimited}}
	keys := NewKeyring([]string{"a", "b", "c"})

	_, err := newTestInterpreter(primary, nil, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)

	// After exhausting the budget the index has wrapped back to the start.
	key, keyErr := keys.Current()
	require.NoError(t, keyErr)
	assert.Equal(t, "a", key)
}

func TestInterpretFatalPrimaryShortCircuits(t *testing.T) {
	primary := &stubExtractor{results: []stubResult{
		{err: errors.New("429 rate limited")},
		{err: errors.New("404 model not found")},
	}}
	fallback := &stubExtractor{results: []stubResult{{movement: completeMovement()}}}
	keys := NewKeyring([]string{"a", "b", "c"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, mv)

	// The fatal second attempt abandons the remaining credential budget.
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestInterpretExpiredCredentialRotatesWithoutBackoff(t *testing.T) {
	primary := &stubExtractor{results: []stubResult{
		{err: errors.New("API key expired")},
		{movement: completeMovement()},
	}}
	keys := NewKeyring([]string{"a", "b"})

	mv, err := newTestInterpreter(primary, nil, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.Equal(t, 2, primary.calls)

	key, keyErr := keys.Current()
	require.NoError(t, keyErr)
	assert.Equal(t, "b", key)
}

func TestInterpretIncompleteRecordsYieldNil(t *testing.T) {
	incomplete := &model.Movement{MovementType: "Gasto", Amount: 80}
	primary := &stubExtractor{results: []stubResult{{movement: incomplete}}}
	fallback := &stubExtractor{results: []stubResult{{movement: &model.Movement{Place: "posto"}}}}
	keys := NewKeyring([]string{"a"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, mv, "partially filled records must never be returned")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestInterpretUnparsablePrimaryDoesNotRetry(t *testing.T) {
	// nil movement with no error means the provider answered without JSON;
	// retrying the same prompt is pointless, so the budget is not spent.
	primary := &stubExtractor{results: []stubResult{{movement: nil}}}
	fallback := &stubExtractor{results: []stubResult{{movement: completeMovement()}}}
	keys := NewKeyring([]string{"a", "b", "c"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestInterpretNoFallbackConfigured(t *testing.T) {
	primary := &stubExtractor{results: []stubResult{{err: errors.New("boom")}}}
	keys := NewKeyring([]string{"a"})

	mv, err := newTestInterpreter(primary, nil, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, mv)
}

func TestInterpretFallbackFailureIsAbsorbed(t *testing.T) {
	primary := &stubExtractor{results: []stubResult{{err: errors.New("fatal thing")}}}
	fallback := &stubExtractor{results: []stubResult{{err: errors.New("fallback down")}}}
	keys := NewKeyring([]string{"a"})

	mv, err := newTestInterpreter(primary, fallback, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, mv)
}

func TestInterpretCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubExtractor{results: []stubResult{{err: errors.New("429")}}}
	keys := NewKeyring([]string{"a", "b"})

	_, err := newTestInterpreter(primary, nil, keys).Interpret(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInterpretNormalizesMissingCategory(t *testing.T) {
	mvIn := &model.Movement{MovementType: "Gasto", Amount: 12, Place: "feira", Date: "03/09/2026"}
	primary := &stubExtractor{results: []stubResult{{movement: mvIn}}}
	keys := NewKeyring([]string{"a"})

	mv, err := newTestInterpreter(primary, nil, keys).Interpret(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.Equal(t, model.CategoryUnspecified, mv.Category)
}
