package etc

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type Config struct {
	Kube        Kube
	Credentials Credentials
	Registry    Registry
	Xray        Xray
	Report      Report
	Schedule    Schedule
	API         API
	Metrics     Metrics
	RedisStore  RedisStore
	RedisPool   RedisPool
}

type Kube struct {
	Kubeconfig            string `env:"XRAY_REPORT_KUBECONFIG"`
	Namespace             string `env:"XRAY_REPORT_NAMESPACE" envDefault:"default"`
	AllNamespaces         bool   `env:"XRAY_REPORT_ALL_NAMESPACES" envDefault:"false"`
	IncludeInitContainers bool   `env:"XRAY_REPORT_INCLUDE_INIT_CONTAINERS" envDefault:"false"`
}

// Credentials are shared by the registry and Xray clients.
type Credentials struct {
	Username string `env:"XRAY_REPORT_USERNAME"`
	Password string `env:"XRAY_REPORT_PASSWORD"`
}

type Registry struct {
	Host     string        `env:"XRAY_REPORT_REGISTRY"`
	Insecure bool          `env:"XRAY_REPORT_REGISTRY_INSECURE" envDefault:"false"`
	Timeout  time.Duration `env:"XRAY_REPORT_REGISTRY_TIMEOUT" envDefault:"1m"`
}

type Xray struct {
	URL      string        `env:"XRAY_REPORT_XRAY_URL"`
	Insecure bool          `env:"XRAY_REPORT_XRAY_INSECURE" envDefault:"false"`
	Timeout  time.Duration `env:"XRAY_REPORT_XRAY_TIMEOUT" envDefault:"1m"`
}

type Report struct {
	HTMLDir string `env:"XRAY_REPORT_HTML_DIR"`
}

type Schedule struct {
	// UpdateInterval is expressed in minutes, 0 runs a single pass.
	UpdateInterval int `env:"XRAY_REPORT_UPDATE_INTERVAL" envDefault:"0"`
}

func (s Schedule) Interval() time.Duration {
	return time.Duration(s.UpdateInterval) * time.Minute
}

type API struct {
	Enabled        bool          `env:"XRAY_REPORT_API_ENABLED" envDefault:"false"`
	Addr           string        `env:"XRAY_REPORT_API_ADDR" envDefault:":8080"`
	TLSCertificate string        `env:"XRAY_REPORT_API_TLS_CERTIFICATE"`
	TLSKey         string        `env:"XRAY_REPORT_API_TLS_KEY"`
	ClientCAs      []string      `env:"XRAY_REPORT_API_CLIENT_CAS"`
	ReadTimeout    time.Duration `env:"XRAY_REPORT_API_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"XRAY_REPORT_API_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout    time.Duration `env:"XRAY_REPORT_API_IDLE_TIMEOUT" envDefault:"60s"`
}

func (c *API) IsTLSEnabled() bool {
	return c.TLSCertificate != "" && c.TLSKey != ""
}

type Metrics struct {
	Enabled  bool   `env:"XRAY_REPORT_METRICS_ENABLED" envDefault:"false"`
	Addr     string `env:"XRAY_REPORT_METRICS_ADDR" envDefault:":8081"`
	Endpoint string `env:"XRAY_REPORT_METRICS_ENDPOINT" envDefault:"/metrics"`
}

type RedisStore struct {
	Namespace string        `env:"XRAY_REPORT_STORE_REDIS_NAMESPACE" envDefault:"kube.xray.reporter:store"`
	ReportTTL time.Duration `env:"XRAY_REPORT_STORE_REDIS_REPORT_TTL" envDefault:"24h"`
}

type RedisPool struct {
	URL               string        `env:"XRAY_REPORT_STORE_REDIS_URL"`
	MaxActive         int           `env:"XRAY_REPORT_REDIS_POOL_MAX_ACTIVE" envDefault:"5"`
	MaxIdle           int           `env:"XRAY_REPORT_REDIS_POOL_MAX_IDLE" envDefault:"5"`
	IdleTimeout       time.Duration `env:"XRAY_REPORT_REDIS_POOL_IDLE_TIMEOUT" envDefault:"5m"`
	ConnectionTimeout time.Duration `env:"XRAY_REPORT_REDIS_POOL_CONNECTION_TIMEOUT" envDefault:"1s"`
	ReadTimeout       time.Duration `env:"XRAY_REPORT_REDIS_POOL_READ_TIMEOUT" envDefault:"1s"`
	WriteTimeout      time.Duration `env:"XRAY_REPORT_REDIS_POOL_WRITE_TIMEOUT" envDefault:"1s"`
}

func (c RedisPool) IsEnabled() bool {
	return c.URL != ""
}

func GetLogLevel() logrus.Level {
	if value, ok := os.LookupEnv("XRAY_REPORT_LOG_LEVEL"); ok {
		level, err := logrus.ParseLevel(value)
		if err != nil {
			return logrus.InfoLevel
		}
		return level
	}
	return logrus.InfoLevel
}

func GetConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}
