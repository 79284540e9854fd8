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
//   - Loader: Decodes one file format into provenance-tagged units
//   - Chunker: Splits units into overlapping passages
//   - EmbeddingService: Generates vector embeddings for passages and questions
//   - VectorIndex: In-memory exact similarity search over passages
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model generation. Without it, only retrieval works.
//   - PromptStore: Customisable prompt templates. Without it, defaults are used.
//   - HistoryExporter: Writes question history to a file.
//   - DocumentWatcher: Watches a directory and triggers rebuilds.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
