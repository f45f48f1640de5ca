// Package preflight provides readiness checks for the filesystem paths and
// the LLM service that Hitchcock depends on.
//
// These checks run in two contexts:
//   - The pipeline runner calls RunAll (without the LLM round trip) before a
//     run so a missing data directory fails fast instead of mid-stage.
//   - The CLI "hitchcock status" command runs every check and renders the
//     results next to database health.
//
// A missing LLM API key is reported as skipped, not failed, because every
// stage has a placeholder fallback.
package preflight
