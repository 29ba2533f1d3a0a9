// Package llm provides LLM client implementations.
//
// The factory builds one client per provider that has a credential
// configured. Supported backends:
//   - OpenAI (chat completions)
//   - Anthropic Claude (official SDK)
//   - Google Gemini
//   - Cerebras and xAI (OpenAI-compatible endpoints)
package llm
