package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "LIQUIDATED"

type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Server   ServerConfig   `mapstructure:"server"`
	Watcher  WatcherConfig  `mapstructure:"watcher"`
}

type UpstreamConfig struct {
	Name     string            `mapstructure:"name"`
	Endpoint string            `mapstructure:"endpoint"`
	Headers  map[string]string `mapstructure:"headers"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Retries  uint64            `mapstructure:"retries"`
}

type CacheConfig struct {
	// Type is one of memory, file, redis or none.
	Type  string        `mapstructure:"type"`
	TTL   time.Duration `mapstructure:"ttl"`
	Size  int           `mapstructure:"size"`
	Path  string        `mapstructure:"path"`
	Redis RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

type PubSubConfig struct {
	PollInterval time.Duration `mapstructure:"pollInterval"`
	Buffer       int           `mapstructure:"buffer"`
}

type ServerConfig struct {
	Address         string    `mapstructure:"address"`
	MetricsAddress  string    `mapstructure:"metricsAddress"`
	Playground      bool      `mapstructure:"playground"`
	Introspection   bool      `mapstructure:"introspection"`
	Tracing         bool      `mapstructure:"tracing"`
	ComplexityLimit int       `mapstructure:"complexityLimit"`
	QueryCacheSize  int       `mapstructure:"queryCacheSize"`
	APQCacheSize    int       `mapstructure:"apqCacheSize"`
	CORS            CORS      `mapstructure:"cors"`
	RateLimit       float64   `mapstructure:"rateLimit"`
	TLS             TLSConfig `mapstructure:"tls"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	MaxAge         int      `mapstructure:"maxAge"`
}

type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	// Hosts are put in a generated certificate when no files are given.
	Hosts []string `mapstructure:"hosts"`
}

type WatcherConfig struct {
	// Endpoint defaults to the upstream endpoint.
	Endpoint string        `mapstructure:"endpoint"`
	Interval time.Duration `mapstructure:"interval"`
	PageSize int           `mapstructure:"pageSize"`
	Sinks    SinksConfig   `mapstructure:"sinks"`
}

type SinksConfig struct {
	Log      bool           `mapstructure:"log"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("upstream.name", "compound-ethereum")
	v.SetDefault("upstream.endpoint", "https://api.thegraph.com/subgraphs/name/messari/compound-ethereum")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.retries", 3)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.size", 1000)
	v.SetDefault("cache.path", ".liquidated/cache")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.keyPrefix", "liquidated:")

	v.SetDefault("pubsub.pollInterval", 15*time.Second)
	v.SetDefault("pubsub.buffer", 16)

	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.metricsAddress", "0.0.0.0:8081")
	v.SetDefault("server.playground", true)
	v.SetDefault("server.introspection", true)
	v.SetDefault("server.complexityLimit", 0)
	v.SetDefault("server.queryCacheSize", 1000)
	v.SetDefault("server.apqCacheSize", 100)
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})
	v.SetDefault("server.cors.maxAge", 86400)

	v.SetDefault("watcher.interval", 30*time.Second)
	v.SetDefault("watcher.pageSize", 100)
	v.SetDefault("watcher.sinks.log", true)
	v.SetDefault("watcher.sinks.kafka.topic", "liquidations")
	v.SetDefault("watcher.sinks.postgres.table", "liquidations")
}

// Load reads the configuration file, when given, and applies LIQUIDATED_*
// environment overrides ("server.address" is LIQUIDATED_SERVER_ADDRESS).
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, reflect.TypeOf(Config{}), "")
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", file)
		}
	}
	conf := &Config{}
	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToMapHook,
	))); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// bindEnvs registers every key of t so that settings without a default
// still pick up their environment variable.
func bindEnvs(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, f.Type, key)
			continue
		}
		_ = v.BindEnv(key)
	}
}

// stringToMapHook decodes "k1=v1,k2=v2" into a map[string]string, the form
// maps take in environment variables.
func stringToMapHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(map[string]string{}) {
		return data, nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(data.(string), ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		k, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Errorf("invalid map entry %q, want key=value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out, nil
}

func (c *Config) Validate() error {
	if c.Upstream.Endpoint == "" {
		return errors.New("upstream.endpoint is required")
	}
	switch c.Cache.Type {
	case "", "none", "memory", "file", "redis":
	default:
		return errors.Errorf("unknown cache.type %q", c.Cache.Type)
	}
	if c.Cache.Type != "" && c.Cache.Type != "none" && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Cache.Type == "file" && c.Cache.Path == "" {
		return errors.New("cache.path is required for the file cache")
	}
	if c.Cache.Type == "redis" && c.Cache.Redis.Addr == "" {
		return errors.New("cache.redis.addr is required for the redis cache")
	}
	if c.ServerTLSIncomplete() {
		return errors.New("server.tls.certFile and server.tls.keyFile must be set together")
	}
	if c.Watcher.PageSize < 0 || c.Watcher.PageSize > 1000 {
		return errors.New("watcher.pageSize must not exceed 1000")
	}
	return nil
}

// ServerTLSIncomplete reports whether only one of the TLS files is configured.
func (c *Config) ServerTLSIncomplete() bool {
	return (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "")
}

// WatcherEndpoint is the endpoint the watcher polls.
func (c *Config) WatcherEndpoint() string {
	if c.Watcher.Endpoint != "" {
		return c.Watcher.Endpoint
	}
	return c.Upstream.Endpoint
}
