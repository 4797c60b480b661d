// Package llm provides the external text-classification fallback for
// transactions no rule matched. It batches descriptions to a provider
// (OpenAI or Anthropic), parses category/confidence suggestions out of the
// response, and isolates network failure: a failed or timed-out call
// surfaces as an error the pipeline degrades from, never a crash.
package llm
