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
//   - Extractor: Turns raw bytes of one format into a Document
//   - ExtractorRegistry: Selects the appropriate extractor
//   - Corpus: Session-scoped, insertion-ordered document collection
//   - Scorer: Scores one document against a query
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model calls. Without it, question and response generation is disabled.
//   - MetricsSource: Tabular feeds. Without it, prompt context carries documents only.
//   - PromptStore: Prompt templates. Without it, built-in templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
