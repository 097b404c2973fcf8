package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "2MB"
	maxTransportTimeout       = 10 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Redis backs the shared slot counter when several processes share one server pool
	Redis RedisConfig `json:"redis" yaml:"redis"`

	// Servers seeds the transport server pool on startup
	Servers []ServerSeed `json:"servers" yaml:"servers"`

	Transport  TransportConfig  `json:"transport" yaml:"transport"`
	Connection ConnectionConfig `json:"connection" yaml:"connection"`
	Dispatch   DispatchConfig   `json:"dispatch" yaml:"dispatch"`
	Health     HealthConfig     `json:"health" yaml:"health"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for rendering pairing artifacts
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`

	// File enables a rotating log file next to stdout when set
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"`
}

// PersistenceConfig selects the store for servers, connections and jobs
type PersistenceConfig struct {
	// Driver is "memory" or "postgres"
	Driver string `json:"driver" yaml:"driver"`
	// AutoMigrate creates or alters the postgres tables on startup
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
	// SlowQueryThreshold marks statements logged as slow; zero keeps the default
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`
}

type RedisConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	URL     string `json:"url" yaml:"url"`
	// KeyPrefix namespaces the slot counter keys
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// ServerSeed describes a transport server registered at startup
type ServerSeed struct {
	ID       string `json:"id" yaml:"id"`
	Address  string `json:"address" yaml:"address"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// TransportConfig bounds every call made to a transport server
type TransportConfig struct {
	RequestTimeout    time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
	RequestsPerSecond float64       `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int           `json:"burst" yaml:"burst"`
}

type ConnectionConfig struct {
	// QRTTL is used when the transport server does not report an expiry
	QRTTL time.Duration `json:"qrTTL" yaml:"qrTTL"`
	// QRMinInterval is the floor between two transport QR requests for one connection
	QRMinInterval time.Duration `json:"qrMinInterval" yaml:"qrMinInterval"`
	StartRetry    RetryConfig   `json:"startRetry" yaml:"startRetry"`
}

type RetryConfig struct {
	MaxAttempts    int           `json:"maxAttempts" yaml:"maxAttempts"`
	InitialBackoff time.Duration `json:"initialBackoff" yaml:"initialBackoff"`
}

type DispatchConfig struct {
	DefaultDelay        time.Duration `json:"defaultDelay" yaml:"defaultDelay"`
	MaxRecipientsPerJob int           `json:"maxRecipientsPerJob" yaml:"maxRecipientsPerJob"`
}

type HealthConfig struct {
	ProbeInterval         time.Duration `json:"probeInterval" yaml:"probeInterval"`
	ProbeTimeout          time.Duration `json:"probeTimeout" yaml:"probeTimeout"`
	MaxFailures           int           `json:"maxFailures" yaml:"maxFailures"`
	RefreshAllConcurrency int           `json:"refreshAllConcurrency" yaml:"refreshAllConcurrency"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// HEALTH_PROBEINTERVAL -> health.probeInterval
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills zero values and clamps the transport timeout.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Persistence.Driver == "" {
		cfg.Persistence.Driver = "memory"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "courier"
	}
	if cfg.Transport.RequestTimeout <= 0 || cfg.Transport.RequestTimeout > maxTransportTimeout {
		cfg.Transport.RequestTimeout = maxTransportTimeout
	}
	if cfg.Transport.RequestsPerSecond <= 0 {
		cfg.Transport.RequestsPerSecond = 20
	}
	if cfg.Transport.Burst <= 0 {
		cfg.Transport.Burst = 5
	}
	if cfg.Connection.QRTTL <= 0 {
		cfg.Connection.QRTTL = 60 * time.Second
	}
	if cfg.Connection.QRMinInterval <= 0 {
		cfg.Connection.QRMinInterval = 5 * time.Second
	}
	if cfg.Connection.StartRetry.MaxAttempts <= 0 {
		cfg.Connection.StartRetry.MaxAttempts = 1
	}
	if cfg.Connection.StartRetry.InitialBackoff <= 0 {
		cfg.Connection.StartRetry.InitialBackoff = time.Second
	}
	if cfg.Dispatch.DefaultDelay <= 0 {
		cfg.Dispatch.DefaultDelay = 5 * time.Second
	}
	if cfg.Dispatch.MaxRecipientsPerJob <= 0 {
		cfg.Dispatch.MaxRecipientsPerJob = 5000
	}
	if cfg.Health.ProbeInterval <= 0 {
		cfg.Health.ProbeInterval = 30 * time.Second
	}
	if cfg.Health.ProbeTimeout <= 0 || cfg.Health.ProbeTimeout > maxTransportTimeout {
		cfg.Health.ProbeTimeout = 5 * time.Second
	}
	if cfg.Health.MaxFailures <= 0 {
		cfg.Health.MaxFailures = 3
	}
	if cfg.Health.RefreshAllConcurrency <= 0 {
		cfg.Health.RefreshAllConcurrency = 4
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
