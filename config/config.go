package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"concentration-server/game"
)

// DefaultPath is the config file read when CONFIG_PATH is not set.
const DefaultPath = "config.json"

// AutoplayParams tunes the demo-mode player.
type AutoplayParams struct {
	DelayMinMS         int `json:"delay_min_ms" validate:"gte=0"`
	DelayMaxMS         int `json:"delay_max_ms" validate:"gtefield=DelayMinMS"`
	UseKnownPairChance int `json:"use_known_pair_chance" validate:"gte=0,lte=100"` // 0-100, probability to flip a remembered match when one is known
	ForgetChance       int `json:"forget_chance" validate:"gte=0,lte=100"`         // 0-100, per remembered card per move
}

// Config holds all configurable game parameters.
type Config struct {
	Port            int    `json:"port" validate:"gt=0,lt=65536"`
	LogLevel        string `json:"log_level" validate:"oneof=debug info warn error"`
	MismatchDelayMS int    `json:"mismatch_delay_ms" validate:"gte=0"`
	WinDelayMS      int    `json:"win_delay_ms" validate:"gte=0"`
	TipDurationMS   int    `json:"tip_duration_ms" validate:"gte=0"`

	// Catalog is the ordered list of faces; each is dealt twice.
	Catalog []game.CardFace `json:"catalog" validate:"min=1,dive"`

	// Tips are flavor strings; one is shown at each game start. May be empty.
	Tips []string `json:"tips"`

	Autoplay AutoplayParams `json:"autoplay"`
}

// DefaultCatalog is the stock content: seven generic faces and one joke entry.
func DefaultCatalog() []game.CardFace {
	return []game.CardFace{
		{Symbol: "💻", Label: "编程"},
		{Symbol: "🌐", Label: "网络"},
		{Symbol: "🔍", Label: "探索"},
		{Symbol: "🚀", Label: "创新"},
		{Symbol: "📱", Label: "科技"},
		{Symbol: "🎮", Label: "游戏"},
		{Symbol: "🤣", Label: "陈力湧的笑话"},
		{Symbol: "🏆", Label: "协会荣誉"},
	}
}

// DefaultTips are the stock flavor strings.
func DefaultTips() []string {
	return []string{
		"陈力湧说：这个配对太简单了！",
		"新华网协提醒：多喝热水有助于记忆力！",
		"听说找到所有配对的人都变帅了！",
		"陈力湧曾经30秒内完成了这个游戏，你能超越吗？",
		"新华网协成员都是靠这个游戏训练的！",
		"据说玩这个游戏可以提高编程能力...",
		"陈力湧：别担心，我第一次也花了很久...",
		"提示：记忆力和发量成反比！",
	}
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Port:            8080,
		LogLevel:        "info",
		MismatchDelayMS: 1000,
		WinDelayMS:      1000,
		TipDurationMS:   5000,
		Catalog:         DefaultCatalog(),
		Tips:            DefaultTips(),
		Autoplay: AutoplayParams{
			DelayMinMS:         400,
			DelayMaxMS:         900,
			UseKnownPairChance: 90,
			ForgetChance:       10,
		},
	}
}

// Load reads the file named by CONFIG_PATH (default config.json) if present,
// then applies environment variable overrides.
func Load() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile reads configuration from an optional JSON file at path,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func LoadFile(path string) *Config {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		// Lists are replaced, not merged, so decode them into empty slots
		// and restore the defaults only when the file leaves them out.
		catalog, tips := cfg.Catalog, cfg.Tips
		cfg.Catalog, cfg.Tips = nil, nil
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
		if cfg.Catalog == nil {
			cfg.Catalog = catalog
		}
		if cfg.Tips == nil {
			cfg.Tips = tips
		}
	}

	overrideInt(&cfg.Port, "PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideInt(&cfg.MismatchDelayMS, "MISMATCH_DELAY_MS")
	overrideInt(&cfg.WinDelayMS, "WIN_DELAY_MS")
	overrideInt(&cfg.TipDurationMS, "TIP_DURATION_MS")
	overrideInt(&cfg.Autoplay.DelayMinMS, "AUTOPLAY_DELAY_MIN_MS")
	overrideInt(&cfg.Autoplay.DelayMaxMS, "AUTOPLAY_DELAY_MAX_MS")
	overrideInt(&cfg.Autoplay.UseKnownPairChance, "AUTOPLAY_USE_KNOWN_PAIR_CHANCE")
	overrideInt(&cfg.Autoplay.ForgetChance, "AUTOPLAY_FORGET_CHANCE")

	return cfg
}

var validate = validator.New()

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid env value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
