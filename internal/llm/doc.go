// Package llm turns free-text financial statements into structured
// movement records. It drives a primary Gemini adapter through a rotating
// credential set with rate-limit retries and falls back to a Groq adapter
// when the primary path yields nothing usable.
package llm
