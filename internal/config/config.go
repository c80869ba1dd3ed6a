package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed prices.yaml
var pricesYAML []byte

// DefaultAPIBaseURL is used when PHOTOTAGGER_API_URL is not set.
const DefaultAPIBaseURL = "http://localhost:8001"

type Config struct {
	API      APIConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Grouping GroupingConfig
	Prices   PricesConfig
}

type APIConfig struct {
	BaseURL string // base URL of the backend the client pipeline talks to
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

type GroupingConfig struct {
	Threshold int // max Hamming distance between perceptual hashes to call two images near-duplicates
}

type PricesConfig struct {
	Models map[string]ModelPricing `yaml:"models"`
}

type ModelPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var prices PricesConfig
	if err := yaml.Unmarshal(pricesYAML, &prices); err != nil {
		// This is an embedded file so this error should never happen in practice.
		panic("failed to unmarshal embedded prices.yaml: " + err.Error())
	}

	return &Config{
		API: APIConfig{
			BaseURL: envString("PHOTOTAGGER_API_URL", DefaultAPIBaseURL),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Grouping: GroupingConfig{
			Threshold: envInt("GROUPING_THRESHOLD", 10),
		},
		Prices: prices,
	}
}

// GetModelPricing returns pricing for a specific model, zero if unknown.
func (c *Config) GetModelPricing(modelName string) ModelPricing {
	if pricing, ok := c.Prices.Models[modelName]; ok {
		return pricing
	}
	return ModelPricing{}
}
