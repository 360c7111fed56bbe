package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config 应用程序配置结构
type Config struct {
	Database Database `yaml:"database"`
	Telegram Telegram `yaml:"telegram"`
	Crawler  Crawler  `yaml:"crawler"`
	App      App      `yaml:"app"`
}

// Database 数据库配置
type Database struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Database        string        `yaml:"database"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Telegram Bot配置
type Telegram struct {
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Crawler 开奖数据爬虫配置
type Crawler struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retry_count"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Schedule   string        `yaml:"schedule"` // cron表达式，每日开奖后抓取
}

// App 应用程序配置
type App struct {
	LogLevel        string        `yaml:"log_level"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	DefaultMethod   string        `yaml:"default_method"`   // frequency/pattern/hybrid/ml
	DefaultPeriods  int           `yaml:"default_periods"`  // 预测时默认回溯期数
	MinConfidence   float64       `yaml:"min_confidence"`   // 低于该信心度的预测将被压制
	FrequencyWeight float64       `yaml:"frequency_weight"` // 混合算法频率权重
	PatternWeight   float64       `yaml:"pattern_weight"`   // 混合算法模式权重
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults 填充缺省值
func (c *Config) applyDefaults() {
	if c.App.DefaultMethod == "" {
		c.App.DefaultMethod = "hybrid"
	}
	if c.App.DefaultPeriods == 0 {
		c.App.DefaultPeriods = 30
	}
	if c.App.MinConfidence == 0 {
		c.App.MinConfidence = 0.7
	}
	if c.App.FrequencyWeight == 0 && c.App.PatternWeight == 0 {
		c.App.FrequencyWeight = 0.6
		c.App.PatternWeight = 0.4
	}
	if c.Crawler.Schedule == "" {
		c.Crawler.Schedule = "50 21 * * *" // 台彩各游戏约21:30开奖
	}
	if c.Crawler.RetryCount == 0 {
		c.Crawler.RetryCount = 3
	}
}

// GetDSN 获取数据库连接字符串
func (d *Database) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}
