package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portcall/internal/platform/config"
)

// portFlags mirrors the configuration as command-line flags. Defaults come
// from the environment so flags override PORTCALL_* variables.
type portFlags struct {
	timeout       float64
	baseService   float64
	vessels       int
	slots         int
	damage        float64
	seed          uint64
	homeCountry   string
	timeUnit      time.Duration
	arrival       float64
	latencyMin    float64
	latencyMax    float64
	leaveWhenFull bool
	workers       int
	logLevel      string
	kafkaBrokers  []string
	kafkaTopic    string
	envErr        error
	base          config.Config
}

func addPortFlags(cmd *cobra.Command) *portFlags {
	cfg, err := config.FromEnv()
	if err != nil {
		cfg = config.Default()
	}
	f := &portFlags{envErr: err, base: cfg}

	flags := cmd.Flags()
	flags.Float64VarP(&f.timeout, "timeout", "x", cfg.RoundTimeout.Seconds(), "evaluation round timeout in simulated seconds")
	flags.Float64VarP(&f.baseService, "base-service", "y", cfg.BaseService.Seconds(), "base unloading time in simulated seconds")
	flags.IntVarP(&f.vessels, "vessels", "z", cfg.VesselCount, "number of vessels to generate")
	flags.IntVarP(&f.slots, "slots", "n", cfg.SlotCapacity, "number of berths")
	flags.Float64VarP(&f.damage, "damage-probability", "p", cfg.DamageProbability, "probability of approach damage and of a damage event")
	flags.Uint64Var(&f.seed, "seed", cfg.Seed, "random seed; 0 seeds from the clock")
	flags.StringVar(&f.homeCountry, "home-country", cfg.HomeCountry, "destination treated as domestic")
	flags.DurationVar(&f.timeUnit, "time-unit", cfg.TimeUnit, "wall-clock length of one simulated second")
	flags.Float64Var(&f.arrival, "arrival-interval", cfg.ArrivalInterval.Seconds(), "simulated seconds between arrivals")
	flags.Float64Var(&f.latencyMin, "latency-min", cfg.AuthorityLatencyMin.Seconds(), "minimum authority response time in simulated seconds")
	flags.Float64Var(&f.latencyMax, "latency-max", cfg.AuthorityLatencyMax.Seconds(), "maximum authority response time in simulated seconds")
	flags.BoolVar(&f.leaveWhenFull, "leave-when-full", cfg.LeaveWhenFull, "vessels leave instead of queueing when the port is full")
	flags.IntVar(&f.workers, "workers", cfg.Workers, "slot workers; 0 means one per berth")
	flags.StringVar(&f.logLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringSliceVar(&f.kafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "Kafka seed brokers for port events")
	flags.StringVar(&f.kafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for port events")
	return f
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// config applies the flags over the environment configuration and validates it.
func (f *portFlags) config() (config.Config, error) {
	if f.envErr != nil {
		return config.Config{}, fmt.Errorf("read environment: %w", f.envErr)
	}
	cfg := f.base
	cfg.RoundTimeout = seconds(f.timeout)
	cfg.BaseService = seconds(f.baseService)
	cfg.VesselCount = f.vessels
	cfg.SlotCapacity = f.slots
	cfg.DamageProbability = f.damage
	cfg.Seed = f.seed
	cfg.HomeCountry = f.homeCountry
	cfg.TimeUnit = f.timeUnit
	cfg.ArrivalInterval = seconds(f.arrival)
	cfg.AuthorityLatencyMin = seconds(f.latencyMin)
	cfg.AuthorityLatencyMax = seconds(f.latencyMax)
	cfg.LeaveWhenFull = f.leaveWhenFull
	cfg.Workers = f.workers
	cfg.LogLevel = f.logLevel
	cfg.KafkaBrokers = f.kafkaBrokers
	cfg.KafkaTopic = f.kafkaTopic
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
