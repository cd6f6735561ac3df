package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/example/honeystore/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

const leaseTTL = 30 // seconds

// Registrar announces the storefront instance in etcd under a leased key so
// that load balancers can find it. It is optional: the service runs without
// it when no endpoints are configured.
type Registrar struct {
	client  *clientv3.Client
	config  *config.EtcdConfig
	logger  *zap.Logger
	leaseID clientv3.LeaseID
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
}

func (i *ServiceInstance) Addr() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

// InstanceKey is the etcd key an instance is registered under.
func InstanceKey(prefix string, instance *ServiceInstance) string {
	return fmt.Sprintf("%s%s/%s", prefix, instance.Name, instance.Addr())
}

// NewRegistrar returns nil, nil when no etcd endpoints are configured.
func NewRegistrar(cfg *config.EtcdConfig, logger *zap.Logger) (*Registrar, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, nil
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &Registrar{
		client: cli,
		config: cfg,
		logger: logger,
	}, nil
}

func (r *Registrar) Register(ctx context.Context, instance *ServiceInstance) error {
	key := InstanceKey(r.config.Prefix, instance)

	lease, err := r.client.Grant(ctx, leaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if _, err = r.client.Put(ctx, key, instance.Addr(), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	// The keep-alive must outlive the registration request.
	ch, err := r.client.KeepAlive(context.Background(), lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep alive: %w", err)
	}
	r.leaseID = lease.ID

	go func() {
		for range ch {
		}
		r.logger.Warn("etcd lease keep-alive stopped", zap.String("key", key))
	}()

	return nil
}

func (r *Registrar) Deregister(ctx context.Context, instance *ServiceInstance) error {
	if _, err := r.client.Delete(ctx, InstanceKey(r.config.Prefix, instance)); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	if r.leaseID != 0 {
		if _, err := r.client.Revoke(ctx, r.leaseID); err != nil {
			return fmt.Errorf("failed to revoke lease: %w", err)
		}
	}
	return nil
}

func (r *Registrar) Close() error {
	return r.client.Close()
}
