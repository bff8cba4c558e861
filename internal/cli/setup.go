// Package cli implements the portsim commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	inspectionhttp "portcall/internal/inspection/adapters/http"
	"portcall/internal/platform/config"
	"portcall/internal/platform/kafka"
	"portcall/internal/platform/logger"
	"portcall/internal/portcall"
	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/audit/store/memory"
	"portcall/pkg/platform/circuit"
)

const (
	kafkaDialTimeout     = 10 * time.Second
	kafkaBreakerCooldown = 30 * time.Second
	remoteCallTimeout    = 30 * time.Second
)

// deps are the resources a command builds around the port and must release.
type deps struct {
	logger  *slog.Logger
	memory  *memory.InMemoryStore
	guarded *audit.Guarded
	kafka   *kafka.Store
}

func (d *deps) close() {
	if d.kafka != nil {
		d.kafka.Close()
	}
}

// eventStore keeps events in memory and, when brokers are configured, also
// ships them to Kafka behind a circuit breaker so a dead broker never stalls
// the event worker.
func (d *deps) eventStore(ctx context.Context, cfg config.Config) (audit.Store, error) {
	d.memory = memory.NewInMemoryStore()
	if len(cfg.KafkaBrokers) == 0 {
		return d.memory, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, kafkaDialTimeout)
	defer cancel()
	store, err := kafka.Dial(dialCtx, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("connect to kafka: %w", err)
	}
	d.kafka = store
	d.guarded = audit.NewGuarded(store, circuit.New("kafka", circuit.WithCooldown(kafkaBreakerCooldown)), d.logger)
	d.logger.Info("shipping port events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return audit.Fanout{d.memory, d.guarded}, nil
}

// newPort wires a port from cfg. authoritiesURL, when set, replaces the
// in-process authorities with clients of a remote inspection service.
func newPort(ctx context.Context, cfg config.Config, reg prometheus.Registerer, authoritiesURL string) (*portcall.Port, *deps, error) {
	d := &deps{logger: logger.New(cfg.LogLevel)}
	store, err := d.eventStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []portcall.Option{
		portcall.WithLogger(d.logger),
		portcall.WithRegisterer(reg),
		portcall.WithEventStore(store),
	}
	if authoritiesURL != "" {
		remote, err := inspectionhttp.NewRemoteSet(authoritiesURL, &http.Client{Timeout: remoteCallTimeout})
		if err != nil {
			d.close()
			return nil, nil, err
		}
		opts = append(opts, portcall.WithAuthorities(remote))
	}

	p, err := portcall.NewPort(cfg, opts...)
	if err != nil {
		d.close()
		return nil, nil, err
	}
	return p, d, nil
}
