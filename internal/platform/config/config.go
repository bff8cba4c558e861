package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"portcall/internal/vessel/models"
	platformstrings "portcall/pkg/platform/strings"
)

// Config is the full simulation and server configuration. Durations named
// in simulated seconds are scaled to wall-clock time with Scale.
type Config struct {
	// RoundTimeout bounds one evaluation round (X).
	RoundTimeout time.Duration
	// BaseService is the unloading time before destination and inspection adjustments (Y).
	BaseService time.Duration
	// VesselCount is the number of vessels a run generates (Z).
	VesselCount int
	// SlotCapacity is the number of berths (N).
	SlotCapacity int
	// DamageProbability is the chance of approach damage and of a damage event (P).
	DamageProbability float64

	// ArrivalInterval staggers vessel arrivals.
	ArrivalInterval time.Duration

	Seed                uint64
	HomeCountry         string
	HTTPAddr            string
	KafkaBrokers        []string
	KafkaTopic          string
	LogLevel            string
	TimeUnit            time.Duration
	AuthorityLatencyMin time.Duration
	AuthorityLatencyMax time.Duration
	LeaveWhenFull       bool
	// Workers is the slot worker pool size; 0 means one per berth.
	Workers int
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		RoundTimeout:        4 * time.Second,
		BaseService:         5 * time.Second,
		VesselCount:         10,
		SlotCapacity:        5,
		DamageProbability:   0.2,
		ArrivalInterval:     time.Second,
		HomeCountry:         models.DefaultHomeCountry,
		HTTPAddr:            ":8080",
		KafkaTopic:          "port-events",
		LogLevel:            "info",
		TimeUnit:            time.Second,
		AuthorityLatencyMin: time.Second,
		AuthorityLatencyMax: 5 * time.Second,
	}
}

// FromEnv overlays PORTCALL_* environment variables on the defaults so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	seconds := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = time.Duration(f * float64(time.Second))
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	seconds("PORTCALL_TIMEOUT_SECONDS", &cfg.RoundTimeout)
	seconds("PORTCALL_BASE_SERVICE_SECONDS", &cfg.BaseService)
	seconds("PORTCALL_ARRIVAL_INTERVAL_SECONDS", &cfg.ArrivalInterval)
	integer("PORTCALL_VESSEL_COUNT", &cfg.VesselCount)
	integer("PORTCALL_SLOT_CAPACITY", &cfg.SlotCapacity)
	integer("PORTCALL_WORKERS", &cfg.Workers)
	if v, ok := lookup("PORTCALL_DAMAGE_PROBABILITY"); ok {
		p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("PORTCALL_DAMAGE_PROBABILITY: %w", err))
		} else {
			cfg.DamageProbability = p
		}
	}
	if v, ok := lookup("PORTCALL_SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("PORTCALL_SEED: %w", err))
		} else {
			cfg.Seed = seed
		}
	}
	str("PORTCALL_HOME_COUNTRY", &cfg.HomeCountry)
	str("PORTCALL_HTTP_ADDR", &cfg.HTTPAddr)
	str("PORTCALL_KAFKA_TOPIC", &cfg.KafkaTopic)
	str("PORTCALL_LOG_LEVEL", &cfg.LogLevel)
	if v, ok := lookup("PORTCALL_KAFKA_BROKERS"); ok {
		cfg.KafkaBrokers = platformstrings.SplitList(v)
	}
	if v, ok := lookup("PORTCALL_TIME_UNIT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("PORTCALL_TIME_UNIT: %w", err))
		} else {
			cfg.TimeUnit = d
		}
	}
	seconds("PORTCALL_AUTHORITY_LATENCY_MIN_SECONDS", &cfg.AuthorityLatencyMin)
	seconds("PORTCALL_AUTHORITY_LATENCY_MAX_SECONDS", &cfg.AuthorityLatencyMax)
	if v, ok := lookup("PORTCALL_LEAVE_WHEN_FULL"); ok {
		cfg.LeaveWhenFull = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.RoundTimeout <= 0 {
		errs = append(errs, fmt.Errorf("round timeout must be positive, got %s", c.RoundTimeout))
	}
	if c.BaseService < 0 {
		errs = append(errs, fmt.Errorf("base service time must not be negative, got %s", c.BaseService))
	}
	if c.ArrivalInterval < 0 {
		errs = append(errs, fmt.Errorf("arrival interval must not be negative, got %s", c.ArrivalInterval))
	}
	if c.VesselCount < 0 {
		errs = append(errs, fmt.Errorf("vessel count must not be negative, got %d", c.VesselCount))
	}
	if c.SlotCapacity < 1 {
		errs = append(errs, fmt.Errorf("slot capacity must be at least 1, got %d", c.SlotCapacity))
	}
	if c.DamageProbability < 0 || c.DamageProbability > 1 {
		errs = append(errs, fmt.Errorf("damage probability must be in [0,1], got %v", c.DamageProbability))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.TimeUnit <= 0 {
		errs = append(errs, fmt.Errorf("time unit must be positive, got %s", c.TimeUnit))
	}
	if c.AuthorityLatencyMin < 0 || c.AuthorityLatencyMax < c.AuthorityLatencyMin {
		errs = append(errs, fmt.Errorf("authority latency range [%s,%s] is invalid", c.AuthorityLatencyMin, c.AuthorityLatencyMax))
	}
	if strings.TrimSpace(c.HomeCountry) == "" {
		errs = append(errs, errors.New("home country is required"))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("kafka topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}

// Scale converts a duration in simulated seconds to wall-clock time.
func (c Config) Scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) * float64(c.TimeUnit) / float64(time.Second))
}

// PoolSize returns the slot worker count.
func (c Config) PoolSize() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return c.SlotCapacity
}
