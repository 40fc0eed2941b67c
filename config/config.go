package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"care-label-reader/internal/pipeline"
)

// Backend реализации примитивов обработки изображений
const (
	BackendAuto   = "auto"
	BackendGoCV   = "gocv"
	BackendRaster = "raster"
)

const DefaultTemplatesDir = "/usr/local/share/laundry-symbol-reader/templates"

type Config struct {
	TelegramToken string          `mapstructure:"telegram_token"`
	TemplatesDir  string          `mapstructure:"templates_dir"`
	Backend       string          `mapstructure:"backend"`
	LogMode       string          `mapstructure:"log_mode"`
	Server        ServerConfig    `mapstructure:"server"`
	Redis         RedisConfig     `mapstructure:"redis"`
	Pipeline      pipeline.Params `mapstructure:"pipeline"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	Mode      string `mapstructure:"mode"`
	MaxUpload int64  `mapstructure:"max_upload"`
}

// RedisConfig пустой Addr означает кэш в памяти
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load читает .env, затем YAML из LABEL_CONFIG (если задан) и переменные
// окружения LABEL_*, например LABEL_PIPELINE_MAX_SYMBOLS
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram_token", "LABEL_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, err
	}

	if path := os.Getenv("LABEL_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendAuto, BackendGoCV, BackendRaster:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Pipeline.MaxSymbols <= 0 {
		return fmt.Errorf("pipeline.max_symbols must be positive, got %d", c.Pipeline.MaxSymbols)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_token", "")
	v.SetDefault("templates_dir", DefaultTemplatesDir)
	v.SetDefault("backend", BackendAuto)
	v.SetDefault("log_mode", "debug")

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_upload", 10*1024*1024)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	p := pipeline.DefaultParams()
	v.SetDefault("pipeline.label_max_saturation", p.LabelMaxSaturation)
	v.SetDefault("pipeline.label_min_value", p.LabelMinValue)
	v.SetDefault("pipeline.label_close_radius", p.LabelCloseRadius)
	v.SetDefault("pipeline.label_open_radius", p.LabelOpenRadius)

	v.SetDefault("pipeline.band_channel", p.BandChannel)
	v.SetDefault("pipeline.band_median_ksize", p.BandMedianKSize)
	v.SetDefault("pipeline.band_ink_saturation", p.BandInkSaturation)
	v.SetDefault("pipeline.band_ink_value", p.BandInkValue)
	v.SetDefault("pipeline.band_mask_close", p.BandMaskClose)
	v.SetDefault("pipeline.band_mask_dilate", p.BandMaskDilate)
	v.SetDefault("pipeline.band_background_ksize", p.BandBackgroundKSize)
	v.SetDefault("pipeline.band_canny_low", p.BandCannyLow)
	v.SetDefault("pipeline.band_canny_high", p.BandCannyHigh)
	v.SetDefault("pipeline.band_edge_close", p.BandEdgeClose)
	v.SetDefault("pipeline.band_open_divisor", p.BandOpenDivisor)
	v.SetDefault("pipeline.band_bridge_divisor", p.BandBridgeDivisor)

	v.SetDefault("pipeline.refine_side_margin", p.RefineSideMargin)
	v.SetDefault("pipeline.refine_h_divisor", p.RefineHDivisor)
	v.SetDefault("pipeline.refine_v_divisor", p.RefineVDivisor)
	v.SetDefault("pipeline.refine_bridge", p.RefineBridge)
	v.SetDefault("pipeline.align_h_divisor", p.AlignHDivisor)
	v.SetDefault("pipeline.align_v_divisor", p.AlignVDivisor)

	v.SetDefault("pipeline.max_symbols", p.MaxSymbols)
	v.SetDefault("pipeline.isolate_adaptive_c", p.IsolateAdaptiveC)
	v.SetDefault("pipeline.isolate_close_divisor", p.IsolateCloseDivisor)
	v.SetDefault("pipeline.isolate_open_divisor", p.IsolateOpenDivisor)
	v.SetDefault("pipeline.isolate_width_scale", p.IsolateWidthScale)
	v.SetDefault("pipeline.isolate_height_scale", p.IsolateHeightScale)

	v.SetDefault("pipeline.clean_dilate_radius", p.CleanDilateRadius)
	v.SetDefault("pipeline.clean_background_ksize", p.CleanBackgroundKSize)
	v.SetDefault("pipeline.clean_adaptive_c", p.CleanAdaptiveC)

	v.SetDefault("pipeline.inner_close_radius", p.InnerCloseRadius)
	v.SetDefault("pipeline.template_border", p.TemplateBorder)
	v.SetDefault("pipeline.base_tolerance", p.BaseTolerance)
	v.SetDefault("pipeline.inner_tolerance", p.InnerTolerance)
	v.SetDefault("pipeline.outer_open_radius", p.OuterOpenRadius)
	v.SetDefault("pipeline.debug_image_path", p.DebugImagePath)
}
