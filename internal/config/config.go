package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Activity  ActivityConfig  `mapstructure:"activity"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Owner     OwnerConfig     `mapstructure:"owner"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// KafkaConfig 为空 brokers 时事件发布降级为 no-op
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  Topics   `mapstructure:"topics"`
	GroupID string   `mapstructure:"group_id"`
}

type Topics struct {
	ActivityEvents string `mapstructure:"activity_events"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_time"`
}

// ActivityConfig 选择动态日志的存储后端: postgres | mongo
type ActivityConfig struct {
	Store        string `mapstructure:"store"`
	DefaultLimit int    `mapstructure:"default_limit"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	FailOpen bool          `mapstructure:"fail_open"`
}

type ReconcileConfig struct {
	Schedule  string `mapstructure:"schedule"`
	BatchSize int    `mapstructure:"batch_size"`
}

type OwnerConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

const (
	ActivityStorePostgres = "postgres"
	ActivityStoreMongo    = "mongo"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("log.level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "social_feed")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.pool_size", 50)
	v.SetDefault("redis.min_idle_conns", 5)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topics.activity_events", "activity-events")
	v.SetDefault("kafka.group_id", "activity-worker-group")

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "social_feed")
	v.SetDefault("mongo.timeout", 10*time.Second)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_time", 7*24*time.Hour)

	v.SetDefault("activity.store", ActivityStorePostgres)
	v.SetDefault("activity.default_limit", 20)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("ratelimit.fail_open", true)

	v.SetDefault("reconcile.schedule", "@every 1h")
	v.SetDefault("reconcile.batch_size", 500)

	v.SetDefault("owner.username", "owner")
	v.SetDefault("owner.email", "owner@socialfeed.com")
	v.SetDefault("owner.password", "")
	v.SetDefault("owner.full_name", "System Owner")
}

// LoadConfig 读取 .env 与 CONFIG_PATH 指向的 YAML，环境变量覆盖同名键 (jwt.secret -> JWT_SECRET)
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.Activity.Store {
	case ActivityStorePostgres:
	case ActivityStoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required when activity.store is mongo")
		}
	default:
		return fmt.Errorf("unknown activity.store %q", c.Activity.Store)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
