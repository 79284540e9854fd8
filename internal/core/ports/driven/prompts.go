package driven

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPrompt indicates a template without the placeholders its
// consumer fills in.
var ErrInvalidPrompt = errors.New("invalid prompt template")

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Known prompts fall back to their built-in template when the stored
	// one is missing or fails CheckPrompt.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswer frames retrieved passages and a question for the model.
	// The prompt template expects two %s placeholders: context, then question.
	PromptAnswer = "answer"
)

// CheckPrompt returns ErrInvalidPrompt when tmpl cannot be filled in for
// name. The answer prompt needs exactly two %s verbs and no other percent
// signs. Unknown names are not checked.
func CheckPrompt(name, tmpl string) error {
	switch name {
	case PromptAnswer:
		if strings.Count(tmpl, "%s") != 2 || strings.Count(tmpl, "%") != 2 {
			return fmt.Errorf("%w: %s needs exactly two %%s placeholders", ErrInvalidPrompt, name)
		}
	}
	return nil
}

// DefaultAnswerPrompt is the built-in PromptAnswer template.
const DefaultAnswerPrompt = `You are StudyMate, an AI learning assistant. Use the following context from the uploaded documents to answer the question accurately and helpfully.

Instructions:
- Provide clear, comprehensive answers based on the context
- If you don't know something based on the context, say so
- When possible, reference which document or section the information comes from
- Format your answer in a student-friendly way

Context:
%s

Question: %s

Answer:`

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
