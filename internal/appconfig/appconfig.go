// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"

	defaultRequestTimeout = 60 * time.Second
	defaultMaxRetries     = 3
	defaultRetryDelay     = time.Second

	defaultSimilarityThreshold = 0.5
	defaultMinConfidence       = 0.7
	defaultMaxDocChars         = 6000
	defaultGroundingMethod     = "hybrid"

	defaultQuestionCount      = 3
	defaultDuplicateThreshold = 0.85
	defaultQuestionRetries    = 2
	defaultAnswerRetries      = 3

	defaultOutputDir = "output"
)

// Config represents the top-level application configuration.
type Config struct {
	LLM        Endpoint        `json:"llm"`
	Judge      Endpoint        `json:"judge"`
	Embedding  EmbeddingConfig `json:"embedding"`
	Grounding  Grounding       `json:"grounding"`
	Questions  Questions       `json:"questions"`
	Answers    Answers         `json:"answers"`
	Run        Run             `json:"run"`
	Debug      bool            `json:"debug"`
	LogFile    string          `json:"logFile,omitempty"`
	ConfigPath string          `json:"-"`
}

// Endpoint describes one OpenAI-compatible chat-completion endpoint
// (a vLLM server or the OpenAI API).
type Endpoint struct {
	Provider          string   `json:"provider,omitempty"`
	BaseURL           string   `json:"baseUrl"`
	Model             string   `json:"model"`
	APIKey            string   `json:"apiKey,omitempty"`
	TimeoutSeconds    int      `json:"timeout,omitempty"`
	MaxRetries        int      `json:"maxRetries,omitempty"`
	RetryDelaySeconds float64  `json:"retryDelay,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	MaxTokens         int      `json:"maxTokens,omitempty"`
}

// EmbeddingConfig describes the embedding service used for semantic checks.
type EmbeddingConfig struct {
	URL            string `json:"url"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
}

// Grounding holds the knobs of the grounding checker.
type Grounding struct {
	Method              string  `json:"method,omitempty"`
	SimilarityThreshold float64 `json:"similarityThreshold,omitempty"`
	MinConfidence       float64 `json:"minConfidence,omitempty"`
	MaxDocChars         int     `json:"maxDocChars,omitempty"`
}

// Questions holds question-generation settings.
type Questions struct {
	Count              int      `json:"count,omitempty"`
	Complexity         string   `json:"complexity,omitempty"`
	Types              []string `json:"types,omitempty"`
	DuplicateThreshold float64  `json:"duplicateThreshold,omitempty"`
	MaxRegeneration    int      `json:"maxRegenerationAttempts,omitempty"`
	MinConfidence      float64  `json:"minConfidence,omitempty"`
}

// Answers holds answer-generation settings.
type Answers struct {
	MaxRegeneration int      `json:"maxRegenerationAttempts,omitempty"`
	MinConfidence   float64  `json:"minConfidence,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// Run holds the per-run input/output settings.
type Run struct {
	InputFile    string `json:"inputFile"`
	NumDocuments int    `json:"numDocuments,omitempty"`
	OutputDir    string `json:"outputDir,omitempty"`
	Parallelism  int    `json:"parallelism,omitempty"`
}

// ProviderName returns the endpoint's provider label, defaulting to
// vllm. Only used for labeling output paths and reports.
func (e Endpoint) ProviderName() string {
	if strings.TrimSpace(e.Provider) == "" {
		return "vllm"
	}
	return strings.ToLower(e.Provider)
}

// Timeout returns the request timeout for the endpoint, falling back to the default.
func (e Endpoint) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Retries returns the configured retry count for the endpoint.
func (e Endpoint) Retries() int {
	if e.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return e.MaxRetries
}

// RetryDelay returns the base delay between retries; attempts back off linearly.
func (e Endpoint) RetryDelay() time.Duration {
	if e.RetryDelaySeconds <= 0 {
		return defaultRetryDelay
	}
	return time.Duration(e.RetryDelaySeconds * float64(time.Second))
}

// Timeout returns the embedding request timeout.
func (c EmbeddingConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SelectedMethod returns the configured grounding method selector.
func (g Grounding) SelectedMethod() string {
	m := strings.ToLower(strings.TrimSpace(g.Method))
	if m == "" {
		return defaultGroundingMethod
	}
	return m
}

// Similarity returns the semantic similarity threshold.
func (g Grounding) Similarity() float64 {
	if g.SimilarityThreshold <= 0 {
		return defaultSimilarityThreshold
	}
	return g.SimilarityThreshold
}

// Confidence returns the minimum grounded-sentence confidence.
func (g Grounding) Confidence() float64 {
	if g.MinConfidence <= 0 {
		return defaultMinConfidence
	}
	return g.MinConfidence
}

// DocCharLimit returns the maximum document size sent to the judge.
func (g Grounding) DocCharLimit() int {
	if g.MaxDocChars <= 0 {
		return defaultMaxDocChars
	}
	return g.MaxDocChars
}

// Target returns how many questions to generate per document.
func (q Questions) Target() int {
	if q.Count <= 0 {
		return defaultQuestionCount
	}
	return q.Count
}

// DuplicateSimilarity returns the duplicate-similarity threshold.
func (q Questions) DuplicateSimilarity() float64 {
	if q.DuplicateThreshold <= 0 {
		return defaultDuplicateThreshold
	}
	return q.DuplicateThreshold
}

// RetryBudget returns the question regeneration budget.
func (q Questions) RetryBudget() int {
	if q.MaxRegeneration <= 0 {
		return defaultQuestionRetries
	}
	return q.MaxRegeneration
}

// Confidence returns the minimum confidence for accepting a question.
func (q Questions) Confidence() float64 {
	if q.MinConfidence <= 0 {
		return defaultMinConfidence
	}
	return q.MinConfidence
}

// RetryBudget returns the answer regeneration budget.
func (a Answers) RetryBudget() int {
	if a.MaxRegeneration <= 0 {
		return defaultAnswerRetries
	}
	return a.MaxRegeneration
}

// Confidence returns the minimum confidence for accepting an answer.
func (a Answers) Confidence() float64 {
	if a.MinConfidence <= 0 {
		return defaultMinConfidence
	}
	return a.MinConfidence
}

// OutputPath returns the output directory for run results.
func (r Run) OutputPath() string {
	if strings.TrimSpace(r.OutputDir) == "" {
		return defaultOutputDir
	}
	return r.OutputDir
}

// Workers returns how many documents may be processed concurrently.
func (r Run) Workers() int {
	if r.Parallelism <= 0 {
		return 1
	}
	return r.Parallelism
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "qagredo.log"
}

// Validate checks the fields every pipeline run depends on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("config must set llm.model")
	}
	if strings.TrimSpace(c.Embedding.Model) == "" {
		return errors.New("config must set embedding.model")
	}
	if strings.TrimSpace(c.Embedding.URL) == "" {
		return errors.New("config must set embedding.url")
	}
	switch m := c.Grounding.SelectedMethod(); m {
	case "semantic", "keyword", "judge", "hybrid":
	default:
		return fmt.Errorf("unknown grounding method %q (use semantic, keyword, judge, or hybrid)", m)
	}
	if needsJudge(c.Grounding.SelectedMethod()) && strings.TrimSpace(c.Judge.Model) == "" {
		return errors.New("config must set judge.model when grounding method is judge or hybrid")
	}
	// The judge must be a different model identity from the generator;
	// a model grading its own output defeats the point of judging.
	if needsJudge(c.Grounding.SelectedMethod()) &&
		c.Judge.Model == c.LLM.Model && c.Judge.BaseURL == c.LLM.BaseURL {
		return errors.New("judge must not share model and endpoint with the generator llm")
	}
	return nil
}

func needsJudge(method string) bool {
	return method == "judge" || method == "hybrid"
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}
