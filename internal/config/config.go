package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	User     UserConfig     `mapstructure:"user"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Database DatabaseConfig `mapstructure:"database"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Lesson   LessonConfig   `mapstructure:"lesson"`
}

type UserConfig struct {
	ID string `mapstructure:"id" validate:"required,uuid"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=file sqlite badger memory"`
	Path   string `mapstructure:"path" validate:"required_unless=Driver memory,omitempty,parentdir"`
}

type RemoteConfig struct {
	Driver string     `mapstructure:"driver" validate:"oneof=rest mysql"`
	REST   RESTConfig `mapstructure:"rest"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SyncConfig struct {
	BatchSize     int           `mapstructure:"batch_size" validate:"gte=1,lte=1000"`
	FlushTimeout  time.Duration `mapstructure:"flush_timeout" validate:"gt=0"`
	RetryAttempts uint          `mapstructure:"retry_attempts" validate:"gte=1"`
	ProbeInterval time.Duration `mapstructure:"probe_interval" validate:"gt=0"`
	TickInterval  time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
}

type LessonConfig struct {
	TotalPages        int `mapstructure:"total_pages" validate:"gte=1"`
	PracticeFirstPage int `mapstructure:"practice_first_page" validate:"gte=1,ltefield=PracticeLastPage"`
	PracticeLastPage  int `mapstructure:"practice_last_page" validate:"gte=1,ltefield=TotalPages"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lingosync")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "lingosync-data")
	v.SetDefault("remote.driver", "rest")
	v.SetDefault("remote.rest.timeout", 10*time.Second)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "lingosync")
	v.SetDefault("database.username", "user")
	v.SetDefault("sync.batch_size", 200)
	v.SetDefault("sync.flush_timeout", 10*time.Second)
	v.SetDefault("sync.retry_attempts", 3)
	v.SetDefault("sync.probe_interval", 30*time.Second)
	v.SetDefault("sync.tick_interval", time.Minute)
	v.SetDefault("lesson.total_pages", 7)
	v.SetDefault("lesson.practice_first_page", 3)
	v.SetDefault("lesson.practice_last_page", 5)

	// Secrets are bound to environment variables
	if err := v.BindEnv("remote.rest.api_key", "LINGOSYNC_REMOTE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind LINGOSYNC_REMOTE_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("user.id", "LINGOSYNC_USER_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind LINGOSYNC_USER_ID environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
