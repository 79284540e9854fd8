package httpjson

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelNotPulled is returned when an Ollama server does not have a model.
var ErrModelNotPulled = errors.New("model not pulled")

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckOllamaModel lists the models of the Ollama server behind c and
// returns ErrModelNotPulled unless model is among them. A name without a
// tag matches its ":latest" variant.
func CheckOllamaModel(ctx context.Context, c *Client, model string) error {
	var tags ollamaTags
	if err := c.Get(ctx, "/api/tags", &tags); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	for _, m := range tags.Models {
		if m.Name == model || m.Name == model+":latest" {
			return nil
		}
	}
	return fmt.Errorf("ollama: %w: %s, run 'ollama pull %s'", ErrModelNotPulled, model, model)
}
