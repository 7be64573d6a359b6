package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Groq     GroqConfig
	Kafka    KafkaConfig
	Pipeline PipelineConfig
	Logger   Logger
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
	// BaseURL is prepended to relative audio locators and embedded in
	// public story links and QR payloads.
	BaseURL string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	StoryCacheTTL int
}

type S3Config struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	MediaBucket string
	// PublicBaseURL is the externally reachable root for uploaded objects.
	PublicBaseURL string
}

type GroqConfig struct {
	APIKey       string
	BaseURL      string
	WhisperModel string
	LlamaModel   string
	// Audio length varies a lot, so upstream calls get minutes, not seconds.
	TimeoutMinutes int
}

type KafkaConfig struct {
	Brokers        []string
	PublishedTopic string
}

type PipelineConfig struct {
	WorkerCount int
	QueueSize   int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func (g GroqConfig) Timeout() time.Duration {
	if g.TimeoutMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(g.TimeoutMinutes) * time.Minute
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
