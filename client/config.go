package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config 客户端全部配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Player   PlayerConfig   `mapstructure:"player"`
	World    WorldConfig    `mapstructure:"world"`
	Decision DecisionConfig `mapstructure:"decision"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig 游戏服务端连接
type ServerConfig struct {
	// host:port 走 TCP，ws:// 或 wss:// 走 websocket 桥接
	Target       string        `mapstructure:"target" validate:"required"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
}

// PlayerConfig 握手时上报的身份
type PlayerConfig struct {
	Name  string `mapstructure:"name" validate:"required,namelen,protofield"`
	Color string `mapstructure:"color" validate:"required,protofield"`
}

// WorldConfig 本地世界
type WorldConfig struct {
	PlayerCapacity int `mapstructure:"player_capacity" validate:"min=1,max=65536"`
}

// DecisionConfig 决策循环
type DecisionConfig struct {
	Tick         time.Duration `mapstructure:"tick" validate:"gt=0"`
	ReadyPoll    time.Duration `mapstructure:"ready_poll" validate:"gt=0"`
	Strategy     string        `mapstructure:"strategy" validate:"required"`
	CommandRate  float64       `mapstructure:"command_rate" validate:"gt=0"` // 每秒指令数上限
	CommandBurst int           `mapstructure:"command_burst" validate:"min=1"`
}

// AdminConfig 调试 HTTP 接口，Addr 为空时不启动
type AdminConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	// debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	Rotation RotationConfig `mapstructure:"rotation"`

	IncludeCaller     bool `mapstructure:"include_caller"`
	IncludeStacktrace bool `mapstructure:"include_stacktrace"`
}

// RotationConfig 日志文件滚动
type RotationConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxSize    int  `mapstructure:"max_size" validate:"min=1"` // MB
	MaxBackups int  `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int  `mapstructure:"max_age" validate:"min=0"` // days
	Compress   bool `mapstructure:"compress"`
}

// defaults 所有配置键的默认值；同时让 AutomaticEnv 能识别每一个键
var defaults = map[string]any{
	"server.target":        "127.0.0.1:3333",
	"server.dial_timeout":  5 * time.Second,
	"server.write_timeout": 5 * time.Second,

	"player.name":  "Go AI",
	"player.color": "orange",

	"world.player_capacity": DefaultPlayerCapacity,

	"decision.tick":          10 * time.Millisecond,
	"decision.ready_poll":    100 * time.Millisecond,
	"decision.strategy":      "scripted",
	"decision.command_rate":  10.0,
	"decision.command_burst": 1,

	"admin.addr": "",

	"logging.level":                "info",
	"logging.format":               "text",
	"logging.output":               "stdout",
	"logging.file_path":            "",
	"logging.rotation.enabled":     true,
	"logging.rotation.max_size":    10,
	"logging.rotation.max_backups": 3,
	"logging.rotation.max_age":     7,
	"logging.rotation.compress":    false,
	"logging.include_caller":       false,
	"logging.include_stacktrace":   false,
}

// flagKeys 命令行参数名到配置键的映射
var flagKeys = map[string]string{
	"target":    "server.target",
	"name":      "player.name",
	"color":     "player.color",
	"strategy":  "decision.strategy",
	"admin":     "admin.addr",
	"log-level": "logging.level",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("BUMPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig 按优先级加载配置：
// 1. 命令行参数（仅显式指定的）
// 2. 环境变量（BUMPER_ 前缀，可来自 .env）
// 3. 配置文件（bumperbot.yaml）
// 4. 默认值
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("bumperbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/bumperbot")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig 只包含默认值的配置
func DefaultConfig() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &cfg
}

// Validator go-playground/validator 的包装
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建校验器并注册自定义规则
func NewValidator() *Validator {
	v := validator.New()
	// protofield：字段会被拼进握手行，不能包含协议分隔符或换行
	_ = v.RegisterValidation("protofield", func(fl validator.FieldLevel) bool {
		return protoSafe(fl.Field().String())
	})
	// namelen：与握手时的长度检查一致，按字节计
	_ = v.RegisterValidation("namelen", func(fl validator.FieldLevel) bool {
		return validNameLen(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate 按结构体标签校验
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig 校验整个配置
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
