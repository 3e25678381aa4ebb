package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost     string
	ServicePort     int
	LogLevel        string
	LogFormat       string
	DefaultPlan     string
	ShutdownTimeout time.Duration
	JWT             JWTConfig
	Redis           RedisConfig
	MinIO           MinIOConfig
	CORS            CORSConfig
}

type JWTConfig struct {
	Token         string `mapstructure:"-"`
	ExpiresIn     time.Duration
	Issuer        string
	CookieName    string
	SigningMethod jwt.SigningMethod `mapstructure:"-"`
}

type RedisConfig struct {
	Host        string `mapstructure:"-"`
	Password    string `mapstructure:"-"`
	Port        int    `mapstructure:"-"`
	User        string `mapstructure:"-"`
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	Bucket    string
	UseSSL    bool
	AccessKey string `mapstructure:"-"`
	SecretKey string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowOrigins []string
}

const (
	envConfigName = "CONFIG_NAME"
	envJWTSecret  = "JWT_SECRET"
	envRedisHost  = "REDIS_HOST"
	envRedisPort  = "REDIS_PORT"
	envRedisUser  = "REDIS_USER"
	envRedisPass  = "REDIS_PASSWORD"
	envMinIOKey   = "MINIO_ACCESS_KEY"
	envMinIOSec   = "MINIO_SECRET_KEY"
)

// Enabled - настроено ли хранилище логотипов.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// NewConfig читает config/<CONFIG_NAME>.toml и секреты из окружения (.env подхватывается).
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configName := "config"
	if name := os.Getenv(envConfigName); name != "" {
		configName = name
	}

	return Load(configName, "config", ".")
}

// Load читает конфиг с заданным именем из перечисленных каталогов.
func Load(name string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", name, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	log.WithField("config", v.ConfigFileUsed()).Info("config parsed")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ServiceHost", "0.0.0.0")
	v.SetDefault("ServicePort", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("JWT.ExpiresIn", time.Hour)
	v.SetDefault("JWT.Issuer", "pipespec")
	v.SetDefault("JWT.CookieName", "auth_token")
	v.SetDefault("Redis.DialTimeout", 10*time.Second)
	v.SetDefault("Redis.ReadTimeout", 10*time.Second)
	v.SetDefault("CORS.AllowOrigins", []string{"http://localhost:3000"})
}

func (cfg *Config) applyEnv() error {
	var err error

	// JWT: секрет только из окружения
	cfg.JWT.Token = os.Getenv(envJWTSecret)
	if cfg.JWT.Token == "" {
		return fmt.Errorf("%s is not set", envJWTSecret)
	}
	cfg.JWT.SigningMethod = jwt.SigningMethodHS256

	// Redis
	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
	if err != nil {
		return fmt.Errorf("redis port must be int value: %w", err)
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)

	// MinIO опционален: без endpoint загрузка логотипов отключена
	cfg.MinIO.AccessKey = os.Getenv(envMinIOKey)
	cfg.MinIO.SecretKey = os.Getenv(envMinIOSec)

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return nil
}

// SetupLogger настраивает глобальный logrus по LogLevel и LogFormat.
func (cfg *Config) SetupLogger() {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
