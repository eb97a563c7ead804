package config

import (
	"errors"
	"flag"
	"fmt"
	"github.com/caarlos0/env/v10"
	"time"
)

const (
	BrokerMQTT  = "mqtt"
	BrokerRedis = "redis"
)

// Config собирает настройки из флагов командной строки, переменные окружения имеют приоритет
type Config struct {
	RunAddr  string `env:"RUN_ADDR"`
	LogLevel string `env:"LOG_LEVEL"`

	// если задан, запросы от других навыков отклоняются
	ApplicationID string `env:"APPLICATION_ID"`

	Broker      string `env:"BROKER"`
	TopicText   string `env:"TOPIC_TEXT"`
	TopicImages string `env:"TOPIC_IMAGES"`

	MQTTHost           string `env:"MQTT_HOST"`
	MQTTEndpoint       string `env:"MQTT_ENDPOINT"`
	MQTTPort           int    `env:"MQTT_PORT"`
	MQTTClientIDPrefix string `env:"MQTT_CLIENT_ID_PREFIX"`
	MQTTKeyPath        string `env:"MQTT_KEY_PATH"`
	MQTTCertPath       string `env:"MQTT_CERT_PATH"`
	MQTTCAPath         string `env:"MQTT_CA_PATH"`
	MQTTRegion         string `env:"MQTT_REGION"`
	MQTTQoS            int    `env:"MQTT_QOS"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASS"`
	RedisDB       int    `env:"REDIS_DB"`

	SearchAPIKey   string `env:"SEARCH_API_KEY"`
	SearchEngineID string `env:"SEARCH_ENGINE_ID"`
	SearchBaseURL  string `env:"SEARCH_BASE_URL"`
	SearchResults  int    `env:"SEARCH_RESULTS"`

	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT"`
}

// Load разбирает флаги из args, затем применяет переменные окружения и проверяет результат
func Load(name string, args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddr, "a", ":8080", "address and port")
	fs.StringVar(&cfg.LogLevel, "l", "debug", "log level")
	fs.StringVar(&cfg.ApplicationID, "app-id", "", "accepted skill application ID")

	fs.StringVar(&cfg.Broker, "b", BrokerMQTT, "broker kind: mqtt or redis")
	fs.StringVar(&cfg.TopicText, "topic-text", "MagicMirror:new-text", "topic for text updates")
	fs.StringVar(&cfg.TopicImages, "topic-images", "MagicMirror:new-images", "topic for image updates")

	fs.StringVar(&cfg.MQTTHost, "mqtt-host", "", "MQTT broker host, overrides endpoint and region")
	fs.StringVar(&cfg.MQTTEndpoint, "mqtt-endpoint", "", "AWS IoT endpoint prefix, e.g. abc123-ats")
	fs.IntVar(&cfg.MQTTPort, "mqtt-port", 8883, "MQTT broker port")
	fs.StringVar(&cfg.MQTTClientIDPrefix, "mqtt-client-id", "AlexaMagicMirror", "MQTT client ID prefix")
	fs.StringVar(&cfg.MQTTKeyPath, "mqtt-key", "", "path to the device private key")
	fs.StringVar(&cfg.MQTTCertPath, "mqtt-cert", "", "path to the device certificate")
	fs.StringVar(&cfg.MQTTCAPath, "mqtt-ca", "", "path to the root CA")
	fs.StringVar(&cfg.MQTTRegion, "mqtt-region", "us-east-1", "AWS IoT region")
	fs.IntVar(&cfg.MQTTQoS, "mqtt-qos", 0, "MQTT publish QoS")

	fs.StringVar(&cfg.RedisAddr, "redis-addr", "localhost:6379", "redis address")
	fs.StringVar(&cfg.RedisPassword, "redis-pass", "", "redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "redis DB")

	fs.StringVar(&cfg.SearchAPIKey, "search-key", "", "Google Custom Search API key")
	fs.StringVar(&cfg.SearchEngineID, "search-cx", "", "Google Custom Search engine ID")
	fs.StringVar(&cfg.SearchBaseURL, "search-url", "https://www.googleapis.com", "image search base URL")
	fs.IntVar(&cfg.SearchResults, "search-results", 10, "number of images to request")

	fs.DurationVar(&cfg.ConnectTimeout, "connect-timeout", 10*time.Second, "broker connect timeout")
	fs.DurationVar(&cfg.PublishTimeout, "publish-timeout", 5*time.Second, "broker publish timeout")
	fs.DurationVar(&cfg.SearchTimeout, "search-timeout", 10*time.Second, "image search timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	cfg.resolveMQTTHost()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// resolveMQTTHost собирает адрес AWS IoT из префикса и региона, если хост не задан явно
func (c *Config) resolveMQTTHost() {
	if c.MQTTHost != "" || c.MQTTEndpoint == "" {
		return
	}
	c.MQTTHost = fmt.Sprintf("%s.iot.%s.amazonaws.com", c.MQTTEndpoint, c.MQTTRegion)
}

func (c *Config) Validate() error {
	if c.RunAddr == "" {
		return errors.New("RUN_ADDR is required")
	}

	switch c.Broker {
	case BrokerMQTT:
		if c.MQTTHost == "" {
			return errors.New("MQTT_HOST or MQTT_ENDPOINT is required for the mqtt broker")
		}
		if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
			return errors.New("MQTT_PORT must be between 1 and 65535")
		}
		if c.MQTTQoS < 0 || c.MQTTQoS > 2 {
			return errors.New("MQTT_QOS must be 0, 1 or 2")
		}
	case BrokerRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis broker")
		}
	default:
		return fmt.Errorf("unknown broker %q", c.Broker)
	}

	if c.TopicText == "" || c.TopicImages == "" {
		return errors.New("TOPIC_TEXT and TOPIC_IMAGES are required")
	}

	if c.SearchAPIKey == "" || c.SearchEngineID == "" {
		return errors.New("SEARCH_API_KEY and SEARCH_ENGINE_ID are required")
	}

	if c.SearchResults < 1 || c.SearchResults > 10 {
		return errors.New("SEARCH_RESULTS must be between 1 and 10")
	}

	if c.ConnectTimeout <= 0 || c.PublishTimeout <= 0 || c.SearchTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	return nil
}

// String не выводит ключи и пароли
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{RunAddr=%s, LogLevel=%s, Broker=%s, MQTTHost=%s, MQTTPort=%d, MQTTRegion=%s, "+
			"RedisAddr=%s, TopicText=%s, TopicImages=%s, SearchBaseURL=%s}",
		c.RunAddr,
		c.LogLevel,
		c.Broker,
		c.MQTTHost,
		c.MQTTPort,
		c.MQTTRegion,
		c.RedisAddr,
		c.TopicText,
		c.TopicImages,
		c.SearchBaseURL,
	)
}
