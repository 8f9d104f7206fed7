package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	LogConfig struct {
		Level  string
		Format string // console | logfmt | json
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	SQLConfig struct {
		Driver string // postgres | sqlite3
		DSN    string
		Table  string
	}

	StorageConfig struct {
		Engine string // bolt | redis | sql | memory
		Path   string
		Bucket string
		Redis  RedisConfig
		SQL    SQLConfig
	}

	SeedConfig struct {
		OnStart  bool
		Students int
		Teachers int
	}

	MailConfig struct {
		DefaultFromEmail string
		SendgridAPIKey   string
		FrontendBaseURL  string
	}

	SalaryConfig struct {
		DefaultBasic      float64
		DefaultAllowances float64
		DefaultDeductions float64
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string

		Log     LogConfig
		Storage StorageConfig
		Seed    SeedConfig
		Mail    MailConfig
		Salary  SalaryConfig
	}
)

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "The Thoughts School")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")

	v.SetDefault("storageEngine", "bolt")
	v.SetDefault("storagePath", filepath.Join("data", "schooladmin.db"))
	v.SetDefault("storageBucket", "localStorage")
	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("redisPrefix", "schooladmin:")
	v.SetDefault("sqlDriver", "sqlite3")
	v.SetDefault("sqlDSN", filepath.Join("data", "schooladmin.sqlite"))
	v.SetDefault("sqlTable", "local_storage")

	v.SetDefault("seedOnStart", true)
	v.SetDefault("seedStudents", 50)
	v.SetDefault("seedTeachers", 10)

	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("frontendBaseURL", "http://localhost:8080")

	v.SetDefault("salaryDefaultBasic", 30000.0)
	v.SetDefault("salaryDefaultAllowances", 5000.0)
	v.SetDefault("salaryDefaultDeductions", 2000.0)
}

// NewConfig loads the configuration from defaults, an optional dotenv file and the environment.
// ENV selects the environment (DEV by default, TEST, QA, PROD) and is used as env prefix,
// e.g. DEV_STORAGEENGINE=redis.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Log: LogConfig{
			Level:  v.GetString("logLevel"),
			Format: v.GetString("logFormat"),
		},
		Storage: StorageConfig{
			Engine: CleanString(v.GetString("storageEngine"), true /* lower */),
			Path:   v.GetString("storagePath"),
			Bucket: v.GetString("storageBucket"),
			Redis: RedisConfig{
				Addr:     v.GetString("redisAddr"),
				Password: v.GetString("redisPassword"),
				DB:       v.GetInt("redisDB"),
				Prefix:   v.GetString("redisPrefix"),
			},
			SQL: SQLConfig{
				Driver: v.GetString("sqlDriver"),
				DSN:    v.GetString("sqlDSN"),
				Table:  v.GetString("sqlTable"),
			},
		},
		Seed: SeedConfig{
			OnStart:  v.GetBool("seedOnStart"),
			Students: v.GetInt("seedStudents"),
			Teachers: v.GetInt("seedTeachers"),
		},
		Mail: MailConfig{
			DefaultFromEmail: v.GetString("defaultFromEmail"),
			SendgridAPIKey:   v.GetString("sendgridApiKey"),
			FrontendBaseURL:  v.GetString("frontendBaseURL"),
		},
		Salary: SalaryConfig{
			DefaultBasic:      v.GetFloat64("salaryDefaultBasic"),
			DefaultAllowances: v.GetFloat64("salaryDefaultAllowances"),
			DefaultDeductions: v.GetFloat64("salaryDefaultDeductions"),
		},
	}, nil
}
