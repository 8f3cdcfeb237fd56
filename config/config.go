package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	OSS      OSSConfig      `mapstructure:"oss"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Email    EmailConfig    `mapstructure:"email"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Credits  CreditsConfig  `mapstructure:"credits"`
	Plans    []PlanConfig   `mapstructure:"plans"`
	Packs    []PackConfig   `mapstructure:"credit_packs"`
	Image    ImageConfig    `mapstructure:"image"`
	Article  ArticleConfig  `mapstructure:"article"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	PublishableKey string `mapstructure:"publishable_key"`
	Currency       string `mapstructure:"currency"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	ArticleQueue string `mapstructure:"article_queue"`
	MaxWorkers   int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type CreditsConfig struct {
	// LowBalanceThreshold 扣减后余额低于该值时发送预警邮件，0 表示关闭
	LowBalanceThreshold int64 `mapstructure:"low_balance_threshold"`
}

type PlanConfig struct {
	ID             string   `mapstructure:"id"`
	Name           string   `mapstructure:"name"`
	PriceCents     int64    `mapstructure:"price_cents"`
	MonthlyCredits int64    `mapstructure:"monthly_credits"`
	IsLifetime     bool     `mapstructure:"is_lifetime"`
	Features       []string `mapstructure:"features"`
}

type PackConfig struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	Credits    int64  `mapstructure:"credits"`
	PriceCents int64  `mapstructure:"price_cents"`
}

type ImageConfig struct {
	CostPerImage    int64             `mapstructure:"cost_per_image"`
	MaxPerRequest   int               `mapstructure:"max_per_request"`
	DefaultProvider string            `mapstructure:"default_provider"`
	Providers       map[string]string `mapstructure:"providers"` // provider -> api key
	StabilityEngine string            `mapstructure:"stability_engine"`
}

type ArticleConfig struct {
	APIKey       string           `mapstructure:"api_key"`
	Model        string           `mapstructure:"model"`
	CostByLength map[string]int64 `mapstructure:"cost_by_length"` // short/medium/long -> credits
}

// PopularPlanID 套餐列表中标记为"热门"的套餐 ID
const PopularPlanID = "pro"

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindPlan 按 ID 查找套餐
func (c *Config) FindPlan(id string) *PlanConfig {
	for i := range c.Plans {
		if c.Plans[i].ID == id {
			return &c.Plans[i]
		}
	}
	return nil
}

// FindPack 按 ID 查找积分包
func (c *Config) FindPack(id string) *PackConfig {
	for i := range c.Packs {
		if c.Packs[i].ID == id {
			return &c.Packs[i]
		}
	}
	return nil
}
