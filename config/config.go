package config

import (
	"dogwalking/shared/money"
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	LockDriverRedis  = "redis"
	LockDriverMemory = "memory"

	EventsDriverKafka    = "kafka"
	EventsDriverRabbitMQ = "rabbitmq"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		// APIKeyHash is the bcrypt hash of the key internal services send in X-API-Key.
		APIKeyHash string `envconfig:"API_KEY_HASH"`
	} `envconfig:"APP"`

	Engine struct {
		CommissionRate            money.Rate    `envconfig:"COMMISSION_RATE"             default:"0.13"`
		SettlementHold            time.Duration `envconfig:"SETTLEMENT_HOLD"             default:"48h"`
		LateCancellationThreshold time.Duration `envconfig:"LATE_CANCELLATION_THRESHOLD" default:"24h"`
		Referral                  struct {
			ReferrerReward money.Amount `envconfig:"REFERRER_REWARD" default:"15.00"`
			ReferredReward money.Amount `envconfig:"REFERRED_REWARD" default:"10.00"`
		} `envconfig:"REFERRAL"`
		Sweep struct {
			Interval   time.Duration `envconfig:"INTERVAL"    default:"5m"`
			AutoPayout bool          `envconfig:"AUTO_PAYOUT"`
		} `envconfig:"SWEEP"`
		Lock struct {
			Driver      string        `envconfig:"DRIVER"       default:"redis"`
			TTL         time.Duration `envconfig:"TTL"          default:"10s"`
			WaitTimeout time.Duration `envconfig:"WAIT_TIMEOUT" default:"5s"`
		} `envconfig:"LOCK"`
		Events struct {
			Driver string `envconfig:"DRIVER" default:"kafka"`
		} `envconfig:"EVENTS"`
	} `envconfig:"ENGINE"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			MigrationPath  string `envconfig:"MIGRATION_PATH" default:"file://migrations/postgres"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"dogwalking-engine"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	RabbitMQ struct {
		URL      string `envconfig:"URL"`
		Exchange string `envconfig:"EXCHANGE" default:"dogwalking.events"`
		Queue    string `envconfig:"QUEUE"    default:"dogwalking.referral"`
	} `envconfig:"RABBITMQ"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			Region          string `envconfig:"REGION"       default:"auto"`
			ProofBucket     string `envconfig:"PROOF_BUCKET"`
			ProofPrefix     string `envconfig:"PROOF_PREFIX" default:"proofs"`
		} `envconfig:"S3"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().
			Str("commissionRate", conf.Engine.CommissionRate.String()).
			Dur("settlementHold", conf.Engine.SettlementHold).
			Dur("lateCancellationThreshold", conf.Engine.LateCancellationThreshold).
			Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
