package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking and retrieval options.

Settings are stored in config.toml in the StudyMate data directory
(~/.studymate, or $STUDYMATE_HOME). Use subcommands to configure specific
settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the provider that embeds passages and questions.

Available providers:
  ollama - Local Ollama server (default nomic-embed-text)
  openai - OpenAI API (requires OPENAI_API_KEY or an entered key)
  local  - Built-in hashing embedder, works offline with lower quality`,
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the language model that writes answers from the retrieved passages.`,
	RunE:  runSettingsLLM,
}

var (
	chunkSize       int
	chunkOverlap    int
	chunkMergePages bool
	chunkTopK       int
)

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Set passage size, overlap and retrieval depth",
	Long: `Set how documents are split into passages and how many passages are
retrieved per question. Only the flags given are changed.

Changing chunking takes effect the next time documents are loaded.`,
	Example: `  studymate settings chunking --size 800 --overlap 150
  studymate settings chunking --top-k 6`,
	RunE: runSettingsChunking,
}

func init() {
	settingsChunkingCmd.Flags().IntVar(&chunkSize, "size", 0, "maximum passage length in characters")
	settingsChunkingCmd.Flags().IntVar(&chunkOverlap, "overlap", 0, "characters shared by consecutive passages")
	settingsChunkingCmd.Flags().BoolVar(&chunkMergePages, "merge-pages", false, "let passages span PDF page breaks")
	settingsChunkingCmd.Flags().IntVarP(&chunkTopK, "top-k", "k", 0, "passages retrieved per question")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Printf("  Timeout: %ds\n", settings.LLM.TimeoutSeconds)
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status = "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d characters\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d characters\n", settings.Chunking.Overlap)
	cmd.Printf("  Merge pages: %s\n", yesNo(settings.Chunking.MergePages))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Max context: %d characters\n", settings.Retrieval.MaxContextChars)
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Batch size: %d\n", settings.Indexing.BatchSize)
	cmd.Printf("  Concurrency: %d\n", settings.Indexing.Concurrency)
	if settings.Indexing.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f requests/s\n", settings.Indexing.RequestsPerSecond)
	}
	cmd.Printf("  Load workers: %d\n", settings.Loading.Workers)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'studymate settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("StudyMate Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Passages and questions are embedded to find the relevant parts of your documents.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	cmd.Println("The language model writes answers from the passages found.")
	cmd.Println()
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: Chunking")
	cmd.Println("----------------")
	if err := configureChunking(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func configureChunking(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	size := promptInt(cmd, reader, "Passage size in characters", settings.Chunking.Size)
	overlap := promptInt(cmd, reader, "Overlap in characters", settings.Chunking.Overlap)
	if err := settingsService.SetChunking(size, overlap, settings.Chunking.MergePages); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}

	topK := promptInt(cmd, reader, "Passages per question", settings.Retrieval.TopK)
	if err := settingsService.SetTopK(topK); err != nil {
		return fmt.Errorf("failed to set top k: %w", err)
	}
	cmd.Println()
	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	flags := cmd.Flags()
	if !flags.Changed("size") && !flags.Changed("overlap") && !flags.Changed("merge-pages") && !flags.Changed("top-k") {
		return errors.New("nothing to change, give --size, --overlap, --merge-pages or --top-k")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	c := settings.Chunking
	if flags.Changed("size") {
		c.Size = chunkSize
	}
	if flags.Changed("overlap") {
		c.Overlap = chunkOverlap
	}
	if flags.Changed("merge-pages") {
		c.MergePages = chunkMergePages
	}
	if err := settingsService.SetChunking(c.Size, c.Overlap, c.MergePages); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}
	cmd.Printf("Chunking: %d characters, %d overlap, merge pages %s\n", c.Size, c.Overlap, yesNo(c.MergePages))

	if flags.Changed("top-k") {
		if err := settingsService.SetTopK(chunkTopK); err != nil {
			return fmt.Errorf("failed to set top k: %w", err)
		}
		cmd.Printf("Top K: %d\n", chunkTopK)
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

//nolint:dupl // mirrors configureLLMProvider
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use the environment): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // mirrors configureEmbeddingProvider
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use the environment): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a line without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		cmd.Printf("Not a number, keeping %d\n", current)
		return current
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
