package internal

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

const (
	RunAddress  = "RUN_ADDRESS"
	DatabaseURI = "DATABASE_URI"
	ConfigFile  = "CONFIG_FILE"
	RedisAddr   = "REDIS_ADDR"
)

const (
	defaultRunAddress = "localhost:8080"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
	ConfigFile  string
	RedisAddr   string
	Settings    Settings
}

// Settings is loaded once at startup and never mutated afterwards.
type Settings struct {
	BusinessName  string
	Pricing       model.PricingTable
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
	SummaryTTL    time.Duration
	SMS           SMSSettings
}

type SMSSettings struct {
	URL      string
	APIKey   string
	SenderID string
}

func (s SMSSettings) Enabled() bool {
	return s.URL != "" && s.APIKey != ""
}

func NewConfig() (*Config, error) {
	c := new(Config)

	flag.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	flag.StringVar(&c.DatabaseURI, "d", setEnvOrDefault(DatabaseURI, ""), "postgres connection string, empty keeps orders in memory")
	flag.StringVar(&c.ConfigFile, "c", setEnvOrDefault(ConfigFile, ""), "settings file (yaml, json or toml)")
	flag.StringVar(&c.RedisAddr, "r", setEnvOrDefault(RedisAddr, ""), "redis address for the report cache")

	flag.Parse()

	s, err := LoadSettings(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	c.Settings = s
	return c, nil
}

// LoadSettings reads business settings from path (optional) with env
// overrides such as PRICING_REGULAR_CLOTHES or SMS_API_KEY.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("business.name", "Express Wash")
	v.SetDefault("pricing.regular_clothes", "50")
	v.SetDefault("pricing.blankets", "100")
	v.SetDefault("pricing.white_clothes", "40")
	v.SetDefault("store.timeout", "5s")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("report.summary_ttl", "30s")
	v.SetDefault("sms.url", "https://www.fast2sms.com/dev/bulkV2")
	v.SetDefault("sms.api_key", "")
	v.SetDefault("sms.sender_id", "FSTSMS")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	pricing, err := pricingFrom(v)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		BusinessName:  v.GetString("business.name"),
		Pricing:       pricing,
		StoreTimeout:  v.GetDuration("store.timeout"),
		NotifyTimeout: v.GetDuration("notify.timeout"),
		SummaryTTL:    v.GetDuration("report.summary_ttl"),
		SMS: SMSSettings{
			URL:      v.GetString("sms.url"),
			APIKey:   v.GetString("sms.api_key"),
			SenderID: v.GetString("sms.sender_id"),
		},
	}, nil
}

func pricingFrom(v *viper.Viper) (model.PricingTable, error) {
	rate := func(key string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(v.GetString(key))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %s: %s", ErrInvalidPricing, key, err)
		}
		return d, nil
	}

	var (
		p   model.PricingTable
		err error
	)
	if p.RegularClothes, err = rate("pricing.regular_clothes"); err != nil {
		return p, err
	}
	if p.Blankets, err = rate("pricing.blankets"); err != nil {
		return p, err
	}
	if p.WhiteClothes, err = rate("pricing.white_clothes"); err != nil {
		return p, err
	}
	return p, ValidatePricing(p)
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}
