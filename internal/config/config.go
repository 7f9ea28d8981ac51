package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Prompt   PromptConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"3000"`
	Env  string `env:"ENV" envDefault:"development"`
}

// DatabaseConfig points at the table store holding job descriptions.
// ConnectionString wins over the individual parts when set.
type DatabaseConfig struct {
	ConnectionString       string `env:"STORAGE_CONNECTION_STRING"`
	LegacyConnectionString string `env:"StorageConnectionString"`
	Host                   string `env:"DB_HOST" envDefault:"localhost"`
	Port                   string `env:"DB_PORT" envDefault:"5432"`
	User                   string `env:"DB_USER" envDefault:"postgres"`
	Password               string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName                 string `env:"DB_NAME" envDefault:"resume_analyzer"`
}

type StorageConfig struct {
	UploadPath      string `env:"UPLOAD_PATH" envDefault:"./uploads"`
	ResumeContainer string `env:"RESUME_CONTAINER" envDefault:"resumes"`
	MaxFileSize     int64  `env:"MAX_FILE_SIZE" envDefault:"10485760"`
	TempDir         string `env:"EXTRACT_TEMP_DIR"`
}

// LLMConfig configures the chat model client. OpenAIAPIKey is read from
// OPENAI_API_KEY, falling back to the historical OPENAI_HERE.
type LLMConfig struct {
	Provider              string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Model                 string        `env:"LLM_MODEL"`
	BaseURL               string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Timeout               time.Duration `env:"LLM_TIMEOUT" envDefault:"180s"`
	Temperature           float32       `env:"LLM_TEMPERATURE" envDefault:"0.2"`
	MaxTokens             int           `env:"LLM_MAX_TOKENS" envDefault:"4000"`
	// MaxAttempts counts the first call. The default pauses 2s then 4s;
	// a 2s, 4s, 8s sequence needs LLM_MAX_ATTEMPTS=4.
	MaxAttempts           int           `env:"LLM_MAX_ATTEMPTS" envDefault:"3"`
	BackoffCap            time.Duration `env:"LLM_BACKOFF_CAP" envDefault:"30s"`
	ProbeStructuredOutput bool          `env:"LLM_PROBE_STRUCTURED_OUTPUT" envDefault:"true"`

	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`
	LegacyOpenAIAPIKey string `env:"OPENAI_HERE"`
	GeminiAPIKey       string `env:"GEMINI_API_KEY"`
}

type PromptConfig struct {
	ResumeMaxChars           int `env:"PROMPT_RESUME_MAX_CHARS" envDefault:"8000"`
	PositionMaxChars         int `env:"PROMPT_POSITION_MAX_CHARS" envDefault:"1000"`
	RequirementsMaxChars     int `env:"PROMPT_REQUIREMENTS_MAX_CHARS" envDefault:"2000"`
	ResponsibilitiesMaxChars int `env:"PROMPT_RESPONSIBILITIES_MAX_CHARS" envDefault:"2000"`
	QuestionCount            int `env:"PROMPT_QUESTION_COUNT" envDefault:"5"`
}

// CacheConfig enables the Redis analysis cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `env:"CACHE_REDIS_ADDR"`
	RedisPassword string        `env:"CACHE_REDIS_PASSWORD"`
	RedisDB       int           `env:"CACHE_REDIS_DB" envDefault:"0"`
	AnalysisTTL   time.Duration `env:"CACHE_ANALYSIS_TTL" envDefault:"24h"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "gpt-4o"
	defaultGeminiModel = "gemini-2.5-flash"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		log.Println("No .env file found. Using environment and default values.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Sanitize()
	return &cfg, nil
}

// LoadFromEnvironment parses config from an explicit variable set instead of the process environment.
func LoadFromEnvironment(environment map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Sanitize()
	return &cfg, nil
}

// Sanitize resolves historical variable names and clamps values that would
// leave the service unusable.
func (c *Config) Sanitize() {
	if c.Database.ConnectionString == "" {
		c.Database.ConnectionString = c.Database.LegacyConnectionString
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider != ProviderGemini {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.OpenAIAPIKey == "" {
		c.LLM.OpenAIAPIKey = c.LLM.LegacyOpenAIAPIKey
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultOpenAIModel
		if c.LLM.Provider == ProviderGemini {
			c.LLM.Model = defaultGeminiModel
		}
	}
	c.LLM.BaseURL = strings.TrimRight(c.LLM.BaseURL, "/")
	if c.LLM.MaxAttempts < 1 {
		c.LLM.MaxAttempts = 1
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 180 * time.Second
	}
	if c.LLM.BackoffCap <= 0 {
		c.LLM.BackoffCap = 30 * time.Second
	}

	if c.Prompt.QuestionCount < 1 {
		c.Prompt.QuestionCount = 5
	}
	if c.Storage.ResumeContainer == "" {
		c.Storage.ResumeContainer = "resumes"
	}
}

// APIKey returns the key for the configured provider.
func (c *LLMConfig) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// RequestBudget is the longest a single analysis can spend on the model,
// including every retry and the backoff between them.
func (c *LLMConfig) RequestBudget() time.Duration {
	budget := time.Duration(c.MaxAttempts) * c.Timeout
	for attempt := 1; attempt < c.MaxAttempts; attempt++ {
		budget += min(time.Duration(1<<attempt)*time.Second, c.BackoffCap)
	}
	return budget
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.ConnectionString != "" {
		return c.Database.ConnectionString
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}
