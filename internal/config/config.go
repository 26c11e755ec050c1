package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	AI       AIConfig       `mapstructure:"ai"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Alert    AlertConfig    `mapstructure:"alert"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Slack    SlackConfig    `mapstructure:"slack"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	GinMode        string   `mapstructure:"gin_mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// AIConfig - 원격 생성 모델 설정
//   - Timeout: 호출자가 거는 전체 제한 시간 (orchestrator)
//   - TransportTimeout: HTTP 클라이언트 자체 타임아웃
type AIConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxOutputTokens  int32         `mapstructure:"max_output_tokens"`
	Timeout          time.Duration `mapstructure:"timeout"`
	TransportTimeout time.Duration `mapstructure:"transport_timeout"`
	CustomViaAI      bool          `mapstructure:"custom_via_ai"`
}

type ScenarioConfig struct {
	ConfigPath string `mapstructure:"config_path"`
}

type AlertConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// SlackConfig - 새 알림을 Slack 채널로 전달 (MinLevel 이상만)
type SlackConfig struct {
	BotToken  string        `mapstructure:"bot_token"`
	ChannelID string        `mapstructure:"channel_id"`
	APIURL    string        `mapstructure:"api_url"`
	MinLevel  string        `mapstructure:"min_level"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (s SlackConfig) Enabled() bool {
	return s.BotToken != "" && s.ChannelID != ""
}

type PostgresConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Database    string `mapstructure:"database"`
	SSLMode     string `mapstructure:"sslmode"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// Enabled reports whether enough connection settings exist to open a pool.
func (p PostgresConfig) Enabled() bool {
	return p.DatabaseURL != "" || (p.User != "" && p.Database != "")
}

// Load reads configuration with priority: environment > config.yaml > defaults.
// .env.server and .env are loaded into the environment first when present.
func Load() (Config, error) {
	_ = godotenv.Load(".env.server")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs/")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.temperature", 0.8)
	v.SetDefault("ai.max_output_tokens", 2000)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.transport_timeout", 120*time.Second)
	v.SetDefault("ai.custom_via_ai", false)

	v.SetDefault("scenario.config_path", "data/mock/businessData.json")

	v.SetDefault("alert.cooldown", 5*time.Minute)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 4)

	v.SetDefault("slack.api_url", "https://slack.com/api")
	v.SetDefault("slack.min_level", "critical")
	v.SetDefault("slack.timeout", 10*time.Second)
}

// 기존 배포 환경의 환경변수 이름 유지
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":           {"PORT", "SERVER_PORT"},
		"server.gin_mode":       {"GIN_MODE"},
		"log.level":             {"LOG_LEVEL"},
		"ai.api_key":            {"AI_API_KEY", "MODELSCOPE_API_KEY"},
		"ai.base_url":           {"AI_BASE_URL"},
		"ai.model":              {"AI_MODEL"},
		"postgres.database_url": {"DATABASE_URL"},
		"postgres.host":         {"PGHOST"},
		"postgres.port":         {"PGPORT"},
		"postgres.user":         {"PGUSER"},
		"postgres.password":     {"PGPASSWORD"},
		"postgres.database":     {"PGDATABASE"},
		"postgres.sslmode":      {"PGSSLMODE"},
		"slack.bot_token":       {"SLACK_BOT_TOKEN"},
		"slack.channel_id":      {"SLACK_CHANNEL_ID"},
	}
	for key, envs := range bindings {
		input := append([]string{key}, envs...)
		if err := v.BindEnv(input...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if cfg.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be positive")
	}
	if cfg.AI.TransportTimeout <= 0 {
		return errors.New("ai.transport_timeout must be positive")
	}
	if cfg.Alert.Cooldown < 0 {
		return errors.New("alert.cooldown must not be negative")
	}
	switch cfg.Slack.MinLevel {
	case "info", "warning", "critical":
	default:
		return fmt.Errorf("slack.min_level must be info, warning or critical, got %q", cfg.Slack.MinLevel)
	}
	return nil
}
