// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Turns an uploaded file into transcript text or messages
//   - NormaliserRegistry: Selects the normaliser for a file
//   - SentimentScorer: Scores text message bodies
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Summarizer: Semantic analysis. Without it, semantic search falls back to keyword search.
//   - TranscriptStore: Transcript persistence. Without it, imports are parse-only.
//   - Metrics: Operational counters. Without it, nothing is recorded.
//   - PromptStore: Customisable summarizer prompts. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
