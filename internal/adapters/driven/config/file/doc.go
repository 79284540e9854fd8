// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the StudyMate data directory.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage
//   - PromptStore: user-editable prompt templates
package file
