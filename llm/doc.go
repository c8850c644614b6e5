// Package llm provides the chat-completion client boundary for the agent
// runtime. It exposes a provider-agnostic interface over chat-style LLM
// APIs: flat messages with roles, function-calling tool definitions, and
// a single blocking Complete operation.
//
// The package routes requests to registered ProviderAdapter implementations
// by provider name (or by model catalog inference), applies middleware such
// as retry-with-backoff, and normalizes provider failures into a typed
// error hierarchy that callers can classify with IsRetryable.
//
// The agent loop in package agentic consumes exactly one capability from
// this package: Complete a chat given a message list and a forced-tool-use
// schema. Everything else (provider selection, credentials, retries) is
// host-application wiring.
package llm
