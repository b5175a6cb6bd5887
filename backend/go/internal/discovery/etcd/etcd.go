package etcd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// WorkerService is the service name sampler workers register under.
const WorkerService = "sampler_worker"

// ServiceDiscovery registers workers under "/<service>/<addr>" and lists them.
type ServiceDiscovery struct {
	cli *clientv3.Client
}

// NewServiceDiscovery connects to the given etcd endpoints.
func NewServiceDiscovery(endpoints []string) (*ServiceDiscovery, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no etcd endpoints configured")
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &ServiceDiscovery{cli: cli}, nil
}

// ServiceKey is the etcd key a service instance is registered under.
func ServiceKey(serviceName, addr string) string {
	return "/" + serviceName + "/" + addr
}

// Register puts the instance key with a lease of ttl seconds and keeps the
// lease alive until ctx is done. The key is removed when the lease is lost or
// ctx is cancelled.
func (s *ServiceDiscovery) Register(ctx context.Context, serviceName, addr string, ttl int64) error {
	lease, err := s.cli.Grant(ctx, ttl)
	if err != nil {
		return fmt.Errorf("grant lease: %w", err)
	}

	key := ServiceKey(serviceName, addr)
	if _, err := s.cli.Put(ctx, key, addr, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	keepAlive, err := s.cli.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("keep alive %s: %w", key, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				s.revoke(key, lease.ID)
				return
			case _, ok := <-keepAlive:
				if !ok {
					log.Printf("etcd lease for %s lost", key)
					s.revoke(key, lease.ID)
					return
				}
			}
		}
	}()
	return nil
}

func (s *ServiceDiscovery) revoke(key string, id clientv3.LeaseID) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s.cli.Delete(ctx, key)
	s.cli.Revoke(ctx, id)
}

// Discover lists the addresses registered for serviceName.
func (s *ServiceDiscovery) Discover(ctx context.Context, serviceName string) ([]string, error) {
	resp, err := s.cli.Get(ctx, "/"+strings.Trim(serviceName, "/")+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		addrs = append(addrs, string(kv.Value))
	}
	return addrs, nil
}

// Close closes the etcd client.
func (s *ServiceDiscovery) Close() error {
	return s.cli.Close()
}
