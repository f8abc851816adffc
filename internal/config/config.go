package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_INTAKE_CONFIG"
	listenAddrEnv     = "NEWS_INTAKE_ADDR"
	baseURLEnv        = "STUDIO_BASE_URL"
	bucketEnv         = "GCS_BUCKET_NAME"
	storageTokenEnv   = "GCS_ACCESS_TOKEN"
	gcpProjectEnv     = "GCP_PROJECT_ID"
	docaiProcessorEnv = "DOCAI_PROCESSOR_ID"
	docaiLocationEnv  = "DOCAI_LOCATION"
	storeProjectEnv   = "SANITY_PROJECT_ID"
	storeDatasetEnv   = "SANITY_DATASET"
	storeTokenEnv     = "SANITY_API_TOKEN"
	generatorKeyEnv   = "GEMINI_API_KEY"
	generatorModelEnv = "GEMINI_MODEL"
	slackWebhookEnv   = "SLACK_WEBHOOK_URL"
	editorEmailEnv    = "EDITOR_EMAIL"
	smtpHostEnv       = "SMTP_HOST"
	natsURLEnv        = "NATS_URL"
	logLevelEnv       = "LOG_LEVEL"
)

// Config holds all settings required across the intake service.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Storage       StorageConfig      `yaml:"storage"`
	DocAI         DocAIConfig        `yaml:"docai"`
	ContentStore  ContentStoreConfig `yaml:"contentStore"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// ServerConfig describes the HTTP intake surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BaseURL is the deployed studio base used to build edit links in
	// notifications.
	BaseURL string `yaml:"baseUrl"`
}

// StorageConfig describes the long-term object storage bucket.
type StorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Token    string `yaml:"token"`
	Endpoint string `yaml:"endpoint"`
}

// DocAIConfig describes the remote document-understanding processor.
type DocAIConfig struct {
	ProjectID   string `yaml:"projectId"`
	ProcessorID string `yaml:"processorId"`
	Location    string `yaml:"location"`
	Endpoint    string `yaml:"endpoint"`
}

// ContentStoreConfig describes the editorial content store.
type ContentStoreConfig struct {
	ProjectID  string `yaml:"projectId"`
	Dataset    string `yaml:"dataset"`
	Token      string `yaml:"token"`
	APIVersion string `yaml:"apiVersion"`
	Endpoint   string `yaml:"endpoint"`
}

// GeneratorConfig defines how to contact the generative-text backend.
// An empty APIKey switches the draft generator into mock mode.
type GeneratorConfig struct {
	APIKey        string `yaml:"apiKey"`
	Model         string `yaml:"model"`
	Endpoint      string `yaml:"endpoint"`
	SystemPrompt  string `yaml:"systemPrompt"`
	MaxInputChars int    `yaml:"maxInputChars"`
}

// NotificationConfig encapsulates the best-effort outbound channels.
type NotificationConfig struct {
	Slack SlackConfig `yaml:"slack"`
	Email EmailConfig `yaml:"email"`
	NATS  NATSConfig  `yaml:"nats"`
}

// SlackConfig wires an incoming-webhook channel.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// EmailConfig wires the editor notification mailbox.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NATSConfig wires the completion-event subject.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads .env, YAML configuration (if present), and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	setIfEnv(&c.Server.Addr, listenAddrEnv)
	setIfEnv(&c.Server.BaseURL, baseURLEnv)
	setIfEnv(&c.Storage.Bucket, bucketEnv)
	setIfEnv(&c.Storage.Token, storageTokenEnv)
	setIfEnv(&c.DocAI.ProjectID, gcpProjectEnv)
	setIfEnv(&c.DocAI.ProcessorID, docaiProcessorEnv)
	setIfEnv(&c.DocAI.Location, docaiLocationEnv)
	setIfEnv(&c.ContentStore.ProjectID, storeProjectEnv)
	setIfEnv(&c.ContentStore.Dataset, storeDatasetEnv)
	setIfEnv(&c.ContentStore.Token, storeTokenEnv)
	setIfEnv(&c.Generator.APIKey, generatorKeyEnv)
	setIfEnv(&c.Generator.Model, generatorModelEnv)
	setIfEnv(&c.Notifications.Slack.WebhookURL, slackWebhookEnv)
	setIfEnv(&c.Notifications.Email.To, editorEmailEnv)
	setIfEnv(&c.Notifications.Email.Host, smtpHostEnv)
	setIfEnv(&c.Notifications.NATS.URL, natsURLEnv)
	setIfEnv(&c.Logging.Level, logLevelEnv)
}

func setIfEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func mergeConfig(base, override Config) Config {
	mergeString(&base.Server.Addr, override.Server.Addr)
	mergeString(&base.Server.BaseURL, override.Server.BaseURL)

	mergeString(&base.Storage.Bucket, override.Storage.Bucket)
	mergeString(&base.Storage.Token, override.Storage.Token)
	mergeString(&base.Storage.Endpoint, override.Storage.Endpoint)

	mergeString(&base.DocAI.ProjectID, override.DocAI.ProjectID)
	mergeString(&base.DocAI.ProcessorID, override.DocAI.ProcessorID)
	mergeString(&base.DocAI.Location, override.DocAI.Location)
	mergeString(&base.DocAI.Endpoint, override.DocAI.Endpoint)

	mergeString(&base.ContentStore.ProjectID, override.ContentStore.ProjectID)
	mergeString(&base.ContentStore.Dataset, override.ContentStore.Dataset)
	mergeString(&base.ContentStore.Token, override.ContentStore.Token)
	mergeString(&base.ContentStore.APIVersion, override.ContentStore.APIVersion)
	mergeString(&base.ContentStore.Endpoint, override.ContentStore.Endpoint)

	mergeString(&base.Generator.APIKey, override.Generator.APIKey)
	mergeString(&base.Generator.Model, override.Generator.Model)
	mergeString(&base.Generator.Endpoint, override.Generator.Endpoint)
	mergeString(&base.Generator.SystemPrompt, override.Generator.SystemPrompt)
	if override.Generator.MaxInputChars > 0 {
		base.Generator.MaxInputChars = override.Generator.MaxInputChars
	}

	mergeString(&base.Notifications.Slack.WebhookURL, override.Notifications.Slack.WebhookURL)
	mergeString(&base.Notifications.Email.Host, override.Notifications.Email.Host)
	if override.Notifications.Email.Port > 0 {
		base.Notifications.Email.Port = override.Notifications.Email.Port
	}
	mergeString(&base.Notifications.Email.From, override.Notifications.Email.From)
	mergeString(&base.Notifications.Email.To, override.Notifications.Email.To)
	mergeString(&base.Notifications.Email.Username, override.Notifications.Email.Username)
	mergeString(&base.Notifications.Email.Password, override.Notifications.Email.Password)
	mergeString(&base.Notifications.NATS.URL, override.Notifications.NATS.URL)
	mergeString(&base.Notifications.NATS.Subject, override.Notifications.NATS.Subject)

	mergeString(&base.Logging.Level, override.Logging.Level)

	return base
}

func mergeString(target *string, override string) {
	if override != "" {
		*target = override
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:3000",
		},
		Storage: StorageConfig{
			Bucket:   "sanity-agent-uploads",
			Endpoint: "https://storage.googleapis.com",
		},
		DocAI: DocAIConfig{
			Location: "us",
			Endpoint: "https://documentai.googleapis.com",
		},
		ContentStore: ContentStoreConfig{
			Dataset:    "production",
			APIVersion: "2023-05-30",
		},
		Generator: GeneratorConfig{
			Model:         "gemini-2.5-flash",
			Endpoint:      "https://generativelanguage.googleapis.com",
			SystemPrompt:  "You are an expert news editor. Rewrite the following press release into a professional, journalistic news article. Focus on facts, clarity, and AP style.",
			MaxInputChars: 30000,
		},
		Notifications: NotificationConfig{
			Email: EmailConfig{Port: 587},
			NATS:  NATSConfig{Subject: "newsroom.intake.completed"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
