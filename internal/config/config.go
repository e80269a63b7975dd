package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	SupabaseURL         string // project URL used for storage sign URLs and public image URLs
	SupabaseSecretKey   string // must be the service_role key, not the anon key
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	ResendAPIKey        string // RESEND_API_KEY for bid/outbid notification emails
	MailFrom            string // MAIL_FROM sender email (default noreply@auction.com)
	AppBaseURL          string // base URL for links in notification emails
	CronSecret          string // shared secret for the HTTP sweep trigger
	SweepIntervalMin    int    // minutes between closing sweeps (0 disables the in-process ticker)
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	sweepMin := 5
	if s := viper.GetString("SWEEP_INTERVAL_MINUTES"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			sweepMin = n
		}
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		AppBaseURL:          appBaseURL(viper.GetString("APP_BASE_URL")),
		CronSecret:          viper.GetString("CRON_SECRET"),
		SweepIntervalMin:    sweepMin,
	}, nil
}

func appBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "http://localhost:3000"
	}
	return strings.TrimRight(s, "/")
}
