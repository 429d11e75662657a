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
//   - DocumentStore: Bounded in-memory session document store
//   - FileLoader: Reads local files into raw documents
//   - Normaliser: Extracts text from raw documents
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessor: Splits documents into paragraph chunks
//   - ParagraphLocator: Maps quoted phrases back to paragraphs
//   - ContradictionDetector: Finds contradictions in rendered chunks
//   - ReportWriter: Persists exported reports
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model access. Without it, only the demo detector is usable.
//   - PromptStore: Editable prompt templates. Without it, built-in prompts are used.
//   - FileWatcher: Change notifications for `check --watch`.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
