package model

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DefaultDebounce         = 1500 * time.Millisecond
	DefaultPanelTimeout     = 15 * time.Second
	DefaultHistoryRetention = 7 // 天
)

type PanelConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

type SyncConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	// Timeout bounds a single write of the host list.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config ..
type Config struct {
	Debug  bool   `mapstructure:"debug"`
	Listen string `mapstructure:"listen"`
	// TokenHash is the bcrypt hash of the bearer token accepted by the API.
	TokenHash string `mapstructure:"token_hash"`
	// 反向代理地址，为空时直接使用对端 IP
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	Panel PanelConfig `mapstructure:"panel"`
	Sync  SyncConfig  `mapstructure:"sync"`

	ReloadScheduler  string `mapstructure:"reload_scheduler"` // 为空则不定时从面板刷新
	HistoryRetention int    `mapstructure:"history_retention"`

	v        *viper.Viper
	lock     sync.Mutex
	onChange []func(*Config)
}

// Read 读取配置文件并监听变更
func (c *Config) Read(path string) error {
	c.v = viper.New()
	c.v.SetConfigFile(path)
	c.v.SetEnvPrefix("HOSTDECK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	c.v.SetDefault("listen", ":8008")
	c.v.SetDefault("panel.timeout", DefaultPanelTimeout)
	c.v.SetDefault("sync.debounce", DefaultDebounce)
	c.v.SetDefault("sync.timeout", DefaultPanelTimeout)
	c.v.SetDefault("history_retention", DefaultHistoryRetention)

	if err := c.v.ReadInConfig(); err != nil {
		return err
	}
	if err := c.v.Unmarshal(c); err != nil {
		return err
	}
	c.normalize()

	c.v.OnConfigChange(func(in fsnotify.Event) {
		c.lock.Lock()
		if err := c.v.Unmarshal(c); err != nil {
			c.lock.Unlock()
			log.Printf("HOSTDECK>> 配置重载失败 %s: %v", in.Name, err)
			return
		}
		c.normalize()
		hooks := c.onChange
		c.lock.Unlock()
		for _, fn := range hooks {
			fn(c)
		}
	})
	c.v.WatchConfig()
	return nil
}

// OnChange registers fn to run after the config file was reloaded.
func (c *Config) OnChange(fn func(*Config)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onChange = append(c.onChange, fn)
}

func (c *Config) normalize() {
	c.Panel.BaseURL = strings.TrimRight(c.Panel.BaseURL, "/")
	if c.Sync.Debounce <= 0 {
		c.Sync.Debounce = DefaultDebounce
	}
	if c.Sync.Timeout <= 0 {
		c.Sync.Timeout = DefaultPanelTimeout
	}
	if c.Panel.Timeout <= 0 {
		c.Panel.Timeout = DefaultPanelTimeout
	}
	if c.HistoryRetention <= 0 {
		c.HistoryRetention = DefaultHistoryRetention
	}
}
