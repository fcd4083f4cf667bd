package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/attribution-api/internal/domain"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Redis       Redis       `mapstructure:",squash"`
	Attribution Attribution `mapstructure:",squash"`
	SecretKey   string      `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Redis struct {
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	TTL      time.Duration `mapstructure:"redis_ttl"`
}

// Enabled indica se a camada de cache em redis deve ser usada
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Attribution struct {
	CronSchedule       string   `mapstructure:"attribution_sync_cron"`
	Enabled            bool     `mapstructure:"attribution_sync_enabled"`
	MaxConcurrentJobs  int      `mapstructure:"attribution_sync_max_concurrent_jobs"`
	RefreshConcurrency int      `mapstructure:"attribution_refresh_concurrency"`
	TimeRanges         []string `mapstructure:"attribution_time_ranges"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/attribution?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("REDIS_ADDR", "") // Vazio desabilita o cache em redis
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL", "6h")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	// Defaults para o recálculo de atribuição
	viper.SetDefault("ATTRIBUTION_SYNC_CRON", "0 2 * * *")      // Todos os dias às 2h da manhã
	viper.SetDefault("ATTRIBUTION_SYNC_ENABLED", false)         // Habilitar recálculo agendado
	viper.SetDefault("ATTRIBUTION_SYNC_MAX_CONCURRENT_JOBS", 3) // 3 usuários em paralelo
	viper.SetDefault("ATTRIBUTION_REFRESH_CONCURRENCY", 4)      // 4 combinações (modelo, janela) em paralelo por usuário
	viper.SetDefault("ATTRIBUTION_TIME_RANGES", "7d,30d,90d")   // Janelas recalculadas

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Attribution.normalize(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// normalize limpa a lista de janelas e rejeita valores fora do conjunto suportado
func (a *Attribution) normalize() error {
	timeRanges := make([]string, 0, len(a.TimeRanges))
	for _, value := range a.TimeRanges {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, err := domain.ParseTimeRange(value); err != nil {
			return fmt.Errorf("janela de atribuição não suportada em ATTRIBUTION_TIME_RANGES: %w", err)
		}
		timeRanges = append(timeRanges, value)
	}
	a.TimeRanges = timeRanges

	if a.MaxConcurrentJobs <= 0 {
		a.MaxConcurrentJobs = 1
	}
	if a.RefreshConcurrency <= 0 {
		a.RefreshConcurrency = 1
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
