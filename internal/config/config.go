package config

import (
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/verification"
	"exzly/internal/implementations/logging"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	NotifierSES      = "ses"
	NotifierRabbitmq = "rabbitmq"
)

type RateLimit struct {
	Window      time.Duration
	MaxAttempts uint32
}

func (l RateLimit) Limit() ratelimiter.Limit {
	return ratelimiter.Limit{MaxAttempts: l.MaxAttempts, Window: l.Window}
}

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE"`
	Port           int      `env:"PORT" envDefault:"9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SecureCookies  bool     `env:"SECURE_COOKIES" envDefault:"true"`

	Secret           string        `env:"SECRET,required,unset"`
	BcryptHasherCost int           `env:"BCRYPT_HASHER_COST" envDefault:"12"`
	TokenIssuer      string        `env:"TOKEN_ISSUER" envDefault:"exzly"`
	SessionTokenTTL  time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"720h"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	Notifier                      string `env:"NOTIFIER" envDefault:"ses"`
	RabbitmqURL                   string `env:"RABBITMQ_URL"`
	RabbitmqCodeNotificationQueue string `env:"RABBITMQ_CODE_NOTIFICATION_QUEUE" envDefault:"code-notifications"`

	AwsRegion                           string  `env:"AWS_REGION"`
	AwsAccessKey                        string  `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                        string  `env:"AWS_SECRET_KEY,unset"`
	AwsEmailSender                      string  `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate       string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE"`
	AwsEmailAccountVerificationTemplate string  `env:"AWS_EMAIL_ACCOUNT_VERIFICATION_TEMPLATE"`
	VerificationURL                     url.URL `env:"VERIFICATION_URL,required"`

	ResetWindow  time.Duration `env:"RESET_WINDOW" envDefault:"15m"`
	CodeDenylist []string      `env:"CODE_DENYLIST" envSeparator:","`

	SignUpRateLimitWindow              time.Duration `env:"SIGN_UP_RATE_LIMIT_WINDOW" envDefault:"1h"`
	SignUpRateLimitMax                 uint32        `env:"SIGN_UP_RATE_LIMIT_MAX" envDefault:"5"`
	SignInRateLimitWindow              time.Duration `env:"SIGN_IN_RATE_LIMIT_WINDOW" envDefault:"15m"`
	SignInRateLimitMax                 uint32        `env:"SIGN_IN_RATE_LIMIT_MAX" envDefault:"10"`
	ForgotPasswordRateLimitWindow      time.Duration `env:"FORGOT_PASSWORD_RATE_LIMIT_WINDOW" envDefault:"1h"`
	ForgotPasswordRateLimitMax         uint32        `env:"FORGOT_PASSWORD_RATE_LIMIT_MAX" envDefault:"3"`
	RequestVerificationRateLimitWindow time.Duration `env:"REQUEST_VERIFICATION_RATE_LIMIT_WINDOW" envDefault:"1h"`
	RequestVerificationRateLimitMax    uint32        `env:"REQUEST_VERIFICATION_RATE_LIMIT_MAX" envDefault:"3"`
	VerificationRateLimitWindow        time.Duration `env:"VERIFICATION_RATE_LIMIT_WINDOW" envDefault:"15m"`
	VerificationRateLimitMax           uint32        `env:"VERIFICATION_RATE_LIMIT_MAX" envDefault:"5"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	rabbitmqURLRules := []validation.Rule{}
	if c.Notifier == NotifierRabbitmq {
		rabbitmqURLRules = append(rabbitmqURLRules, validation.Required)
	}
	emailSenderRules := []validation.Rule{is.Email}
	if c.Notifier == NotifierSES {
		emailSenderRules = append(emailSenderRules, validation.Required)
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Secret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Notifier, validation.Required, validation.In(NotifierSES, NotifierRabbitmq)),
		validation.Field(&c.RabbitmqURL, rabbitmqURLRules...),
		validation.Field(&c.AwsEmailSender, emailSenderRules...),
		validation.Field(&c.ResetWindow, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.SignUpRateLimitWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SignUpRateLimitMax, validation.Required),
		validation.Field(&c.SignInRateLimitWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SignInRateLimitMax, validation.Required),
		validation.Field(&c.ForgotPasswordRateLimitWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ForgotPasswordRateLimitMax, validation.Required),
		validation.Field(&c.RequestVerificationRateLimitWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RequestVerificationRateLimitMax, validation.Required),
		validation.Field(&c.VerificationRateLimitWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.VerificationRateLimitMax, validation.Required),
	)
	if err != nil {
		return err
	}

	for _, code := range c.CodeDenylist {
		err := validation.Validate(
			code,
			validation.Length(verification.CodeLength, verification.CodeLength),
			is.Digit,
		)
		if err != nil {
			return fmt.Errorf("CODE_DENYLIST: %s: %w", code, err)
		}
	}
	return nil
}

// VerificationSettings extends the default denylist with CODE_DENYLIST.
func (c *Config) VerificationSettings() verification.Settings {
	settings := verification.DefaultSettings()
	settings.ResetWindow = c.ResetWindow

	denylist := make([]verification.Code, 0, len(verification.DefaultDenylist)+len(c.CodeDenylist))
	denylist = append(denylist, verification.DefaultDenylist...)
	for _, code := range c.CodeDenylist {
		if !containsCode(denylist, verification.Code(code)) {
			denylist = append(denylist, verification.Code(code))
		}
	}
	settings.Denylist = denylist
	return settings
}

func containsCode(codes []verification.Code, code verification.Code) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func (c *Config) SignUpRateLimit() RateLimit {
	return RateLimit{Window: c.SignUpRateLimitWindow, MaxAttempts: c.SignUpRateLimitMax}
}

func (c *Config) SignInRateLimit() RateLimit {
	return RateLimit{Window: c.SignInRateLimitWindow, MaxAttempts: c.SignInRateLimitMax}
}

func (c *Config) ForgotPasswordRateLimit() RateLimit {
	return RateLimit{Window: c.ForgotPasswordRateLimitWindow, MaxAttempts: c.ForgotPasswordRateLimitMax}
}

func (c *Config) RequestVerificationRateLimit() RateLimit {
	return RateLimit{Window: c.RequestVerificationRateLimitWindow, MaxAttempts: c.RequestVerificationRateLimitMax}
}

func (c *Config) VerificationRateLimit() RateLimit {
	return RateLimit{Window: c.VerificationRateLimitWindow, MaxAttempts: c.VerificationRateLimitMax}
}

func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
	}
}
