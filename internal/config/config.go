package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Port           string
	DBPath         string
	MigrationsPath string
	JWTSecret      string        // 为空时不校验写接口的令牌
	BandTolerance  float64       // 遥测点归属风速档的容差（节）
	RefetchDelay   time.Duration // 风速档变化后重新拉取遥测的去抖时间
	RateLimit      int           // 每个 IP 每分钟请求数
	MaxUploadBytes int64
}

// Defaults 默认配置
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":             ":8080",
		"db_path":          "./data/polars.db",
		"migrations_path":  "./migrations",
		"jwt_secret":       "",
		"band_tolerance":   2.5,
		"refetch_debounce": "500ms",
		"rate_limit":       120,
		"max_upload_bytes": 1 << 20,
	}
}

// Load 加载配置：默认值 < 配置文件（POLAR_CONFIG）< 环境变量
func Load() *Config {
	v := viper.New()
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if file := v.GetString("polar_config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Warning: failed to read config file %s: %v", file, err)
		} else {
			log.Printf("Using config file: %s", v.ConfigFileUsed())
		}
	}

	return FromViper(v)
}

// FromViper 从已填充的 viper 实例构建配置
func FromViper(v *viper.Viper) *Config {
	tolerance := v.GetFloat64("band_tolerance")
	if tolerance <= 0 {
		tolerance = 2.5
	}

	rateLimit := v.GetInt("rate_limit")
	if rateLimit < 1 {
		rateLimit = 120
	}

	return &Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		MigrationsPath: v.GetString("migrations_path"),
		JWTSecret:      v.GetString("jwt_secret"),
		BandTolerance:  tolerance,
		RefetchDelay:   v.GetDuration("refetch_debounce"),
		RateLimit:      rateLimit,
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
	}
}
