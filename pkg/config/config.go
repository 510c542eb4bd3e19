package config

import (
	"strconv"
	"time"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000" validate:"min=1,max=65535"`
}

func (s *Server) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[minibank]"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100" validate:"gt=0"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m" validate:"gt=0"`
}

type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory" validate:"oneof=memory redis kafka"`
}

type Redis struct {
	URL    string `envconfig:"URL" default:"redis://localhost:6379/0"`
	Stream string `envconfig:"STREAM" default:"minibank:notifications"`
	Group  string `envconfig:"GROUP" default:"minibank"`
}

type Kafka struct {
	Brokers      string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic        string `envconfig:"TOPIC" default:"minibank.notifications"`
	GroupID      string `envconfig:"GROUP_ID" default:"minibank"`
	SASLUsername string `envconfig:"SASL_USERNAME"`
	SASLPassword string `envconfig:"SASL_PASSWORD"`
}

type Notification struct {
	Timeout            time.Duration `envconfig:"TIMEOUT" default:"2s" validate:"gt=0"`
	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5" validate:"gt=0"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s" validate:"gt=0"`
}

type Seed struct {
	DemoData bool   `envconfig:"DEMO_DATA" default:"true"`
	File     string `envconfig:"FILE"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
	EventBus     *EventBus     `envconfig:"EVENT_BUS"`
	Redis        *Redis        `envconfig:"REDIS"`
	Kafka        *Kafka        `envconfig:"KAFKA"`
	Notification *Notification `envconfig:"NOTIFICATION"`
	Seed         *Seed         `envconfig:"SEED"`
}
