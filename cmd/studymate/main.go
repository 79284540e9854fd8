// Package main is the studymate entry point. It wires the driven adapters,
// the core services and the command line together.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/studymate/internal/adapters/driven/ai"
	"github.com/custodia-labs/studymate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studymate/internal/adapters/driven/export"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/adapters/driven/watcher"
	"github.com/custodia-labs/studymate/internal/adapters/driving/cli"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/services"
	"github.com/custodia-labs/studymate/internal/loaders/pdf"
	"github.com/custodia-labs/studymate/internal/loaders/plaintext"
	"github.com/custodia-labs/studymate/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; keys may come from the real environment.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	aiServices := ai.Initialise(context.Background(), settings)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	session := newSession(settings, aiServices, prompts)

	docWatcher := watcher.New()
	defer docWatcher.Close()

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetSessionService(session)
	cli.SetDocumentWatcher(docWatcher)

	return cli.Execute()
}

func newSession(settings *domain.AppSettings, aiServices *ai.InitResult, prompts *file.PromptStore) *services.Session {
	loader := services.NewDocumentLoader(settings.Loading.Workers, pdf.New(), plaintext.New())

	builder := services.NewIndexBuilder(
		aiServices.EmbeddingService,
		memory.NewVectorIndexFactory(),
		services.WithBatchSize(settings.Indexing.BatchSize),
		services.WithConcurrency(settings.Indexing.Concurrency),
		services.WithRateLimit(settings.Indexing.RequestsPerSecond),
	)

	engine := services.NewAnswerEngine(aiServices.EmbeddingService, aiServices.LLMService, services.AnswerEngineConfig{
		TopK:            settings.Retrieval.TopK,
		MaxContextChars: settings.Retrieval.MaxContextChars,
		Temperature:     settings.LLM.Temperature,
		MaxTokens:       settings.LLM.MaxTokens,
		Timeout:         time.Duration(settings.LLM.TimeoutSeconds) * time.Second,
	})
	engine.SetPromptStore(prompts)

	return services.NewSession(loader, chunker.FromSettings(settings.Chunking), builder, engine, export.All()...)
}
