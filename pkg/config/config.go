package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Port int
	}
	GRPC struct {
		Port     int
		Endpoint string
	}
	Log struct {
		Level      string
		File       string
		MaxSize    int
		MaxBackups int
		MaxAge     int
		Compress   bool
	}
	Auth struct {
		Enabled  bool
		Secret   string
		Token    string
		TokenTTL time.Duration
	}
	Terminal struct {
		Backend      string
		CallTimeout  time.Duration
		FixturesFile string
		QuotesFile   string
		QuotesPaced  bool
	}
	DB struct {
		Host     string
		Port     int
		Username string
		Password string
		Database string
	}
	Redis struct {
		Addr string
	}
	Bot struct {
		Token          string
		WebhookURL     string
		BridgeEndpoint string
	}
	Client struct {
		Timeout     time.Duration
		HistoryDays int
		InfoSymbol  string
	}
}

var configPaths = []string{"./configs/", "../../configs/"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("grpc.port", 50051)
	v.SetDefault("grpc.endpoint", "localhost:50051")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsize", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxage", 28)
	v.SetDefault("auth.tokenttl", 24*time.Hour)
	v.SetDefault("terminal.backend", "memory")
	v.SetDefault("terminal.calltimeout", 5*time.Second)
	v.SetDefault("terminal.fixturesfile", "configs/fixtures.yaml")
	v.SetDefault("db.database", "mtbridge")
	v.SetDefault("redis.addr", "redis://localhost:6379/0")
	v.SetDefault("bot.bridgeendpoint", "http://localhost:8080")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.historydays", 10)
	v.SetDefault("client.infosymbol", "EURUSD")
}

func Read(appName string, cfg interface{}) error {
	v := viper.New()

	v.SetConfigName(appName)
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	err := v.ReadInConfig()
	if err != nil {
		return err
	}
	if cfg != nil {
		err := v.Unmarshal(cfg)
		if err != nil {
			return err
		}
	}
	return nil
}
