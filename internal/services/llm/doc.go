// Package llm provides an OpenRouter-compatible chat client that returns JSON
// payloads for the storyboard producers.
//
// This package is used by:
//   - Breakdown stage: split a script into scenes
//   - Analysis stage: plan key moments and shots for a scene
//   - Visual plan stage: choose lighting, atmosphere, props and effects
//   - Preflight: verify the API key and model with HealthCheck
//
// # Configuration
//
// Requires api_key and model, and optionally base_url, referer, title and
// timeout. A client without an API key reports Enabled() == false and every
// request returns ErrNotConfigured; callers fall back to placeholder entities.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by default).
// Retry-After headers are honoured. Context cancellation aborts retries
// immediately.
//
// # Decoding
//
// DecodeLLMJSON tolerates code fences and prose around the JSON payload.
package llm
