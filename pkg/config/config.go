package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Habits      HabitsConfig      `mapstructure:"habits"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTExpiryHours int    `mapstructure:"jwt_expiry_hours"`
	JWTIssuer      string `mapstructure:"jwt_issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProgressionConfig holds the XP curve constants. GrowthRate must be >= 1.0.
type ProgressionConfig struct {
	BaseLevelXP int     `mapstructure:"base_level_xp"`
	GrowthRate  float64 `mapstructure:"xp_growth_rate"`
}

// HabitsConfig holds completion reward and quota settings.
type HabitsConfig struct {
	XPAfterCompletion int `mapstructure:"xp_after_completion"`
	XPRandomFactor    int `mapstructure:"xp_random_factor"`
	MaxHabits         int `mapstructure:"max_habits"`
}

type SchedulerConfig struct {
	TaskIntervalSeconds int `mapstructure:"periodic_task_interval_seconds"`
	HabitResettingHour  int `mapstructure:"habit_resetting_hour"`
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		name := strings.TrimSuffix(file, filepath.Ext(file))

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./pkg/config")
		v.SetConfigName("config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env overrides are enough
		// to boot a dev instance.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error loading config file: %v", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Override with environment variables if they exist
	envVars := map[string]string{
		"database.host":                            "DB_HOST",
		"database.port":                            "DB_PORT",
		"database.user":                            "DB_USER",
		"database.password":                        "DB_PASSWORD",
		"database.name":                            "DB_NAME",
		"database.sslmode":                         "DB_SSLMODE",
		"server.port":                              "SERVER_PORT",
		"server.mode":                              "SERVER_MODE",
		"server.timeout":                           "SERVER_TIMEOUT",
		"redis.host":                               "REDIS_HOST",
		"redis.port":                               "REDIS_PORT",
		"redis.password":                           "REDIS_PASSWORD",
		"redis.db":                                 "REDIS_DB",
		"auth.jwt_secret":                          "JWT_SECRET",
		"auth.jwt_issuer":                          "JWT_ISSUER",
		"auth.jwt_expiry_hours":                    "JWT_EXPIRY_HOURS",
		"progression.base_level_xp":                "BASE_LEVEL_XP",
		"progression.xp_growth_rate":               "XP_GROWTH_RATE",
		"habits.xp_after_completion":               "XP_AFTER_COMPLETION",
		"habits.xp_random_factor":                  "XP_RANDOM_FACTOR",
		"habits.max_habits":                        "MAX_HABITS",
		"scheduler.periodic_task_interval_seconds": "PERIODIC_TASK_INTERVAL_SECONDS",
		"scheduler.habit_resetting_hour":           "HABIT_RESETTING_HOURS",
		"logging.level":                            "LOG_LEVEL",
		"logging.format":                           "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		switch envVar {
		case "DB_PORT", "REDIS_PORT", "REDIS_DB", "SERVER_PORT", "JWT_EXPIRY_HOURS",
			"BASE_LEVEL_XP", "XP_AFTER_COMPLETION", "XP_RANDOM_FACTOR", "MAX_HABITS",
			"PERIODIC_TASK_INTERVAL_SECONDS", "HABIT_RESETTING_HOURS":
			if intVal, err := strconv.Atoi(value); err == nil {
				v.Set(configKey, intVal)
			}
		case "XP_GROWTH_RATE":
			if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
				v.Set(configKey, floatVal)
			}
		case "SERVER_TIMEOUT":
			if d, err := time.ParseDuration(value); err == nil {
				v.Set(configKey, d)
			}
		default:
			v.Set(configKey, value)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("auth.jwt_expiry_hours", 24)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("auth.jwt_issuer", "habit-tracker")
	v.SetDefault("progression.base_level_xp", 50)
	v.SetDefault("progression.xp_growth_rate", 1.5)
	v.SetDefault("habits.xp_after_completion", 10)
	v.SetDefault("habits.xp_random_factor", 3)
	v.SetDefault("habits.max_habits", 10)
	v.SetDefault("scheduler.periodic_task_interval_seconds", 600)
	v.SetDefault("scheduler.habit_resetting_hour", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects configurations the progression math cannot work with.
func (c *Config) Validate() error {
	if c.Progression.BaseLevelXP <= 0 {
		return fmt.Errorf("progression.base_level_xp must be positive, got %d", c.Progression.BaseLevelXP)
	}
	if c.Progression.GrowthRate < 1.0 {
		return fmt.Errorf("progression.xp_growth_rate must be >= 1.0, got %v", c.Progression.GrowthRate)
	}
	if c.Habits.XPRandomFactor < 1 {
		return fmt.Errorf("habits.xp_random_factor must be >= 1, got %d", c.Habits.XPRandomFactor)
	}
	if c.Habits.MaxHabits < 1 {
		return fmt.Errorf("habits.max_habits must be >= 1, got %d", c.Habits.MaxHabits)
	}
	if c.Scheduler.HabitResettingHour < 0 || c.Scheduler.HabitResettingHour > 23 {
		return fmt.Errorf("scheduler.habit_resetting_hour must be in [0,23], got %d", c.Scheduler.HabitResettingHour)
	}
	return nil
}
