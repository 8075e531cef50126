package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	JWT         JWTConfig
	Redis       RedisConfig
	Minio       MinioConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envJWTSecret = "JWT_SECRET"

	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioAccessKey = "MINIO_ACCESS_KEY"
	envMinioSecretKey = "MINIO_SECRET_KEY"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.WatchConfig()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// инициализация JWT конфигурации: секрет берём из env
	secret := os.Getenv(envJWTSecret)
	if secret == "" {
		secret = "ipo-portal-dev-secret"
	}
	cfg.JWT = JWTConfig{
		Token:         secret,
		ExpiresIn:     24 * time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
	if err != nil {
		return nil, fmt.Errorf("redis port must be int value: %w", err)
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	// инициализация MinIO: bucket и ssl из toml, креды из env
	cfg.Minio.Endpoint = os.Getenv(envMinioEndpoint)
	cfg.Minio.AccessKey = os.Getenv(envMinioAccessKey)
	cfg.Minio.SecretKey = os.Getenv(envMinioSecretKey)
	if cfg.Minio.Bucket == "" {
		cfg.Minio.Bucket = "prospectus"
	}

	log.Info("config parsed")

	return cfg, nil
}
