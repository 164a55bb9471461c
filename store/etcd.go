package store

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/propsight/tagging"
)

// EtcdConfig configures the etcd persistence medium.
type EtcdConfig struct {
	// Endpoints lists the etcd cluster endpoints (e.g., "localhost:2379").
	Endpoints []string

	// Namespace prefixes every key to isolate this deployment's data.
	// Defaults to "propsight".
	Namespace string

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration
}

// EtcdMedium implements Medium on top of an etcd cluster. Keys are stored
// under "<namespace>/<key>".
type EtcdMedium struct {
	client    *clientv3.Client
	namespace string
}

// NewEtcdMedium creates an etcd-backed medium and verifies connectivity.
func NewEtcdMedium(cfg EtcdConfig) (*EtcdMedium, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "propsight"
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if _, err := client.Status(ctx, cfg.Endpoints[0]); err != nil {
		client.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &EtcdMedium{client: client, namespace: namespace}, nil
}

func (m *EtcdMedium) namespacedKey(key string) string {
	return m.namespace + "/" + key
}

// Read returns the payload stored under key.
func (m *EtcdMedium) Read(ctx context.Context, key string) ([]byte, error) {
	resp, err := m.client.Get(ctx, m.namespacedKey(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tagging.ErrStorageFailed, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, tagging.ErrNotFound
	}
	return resp.Kvs[0].Value, nil
}

// Write stores the payload under key.
func (m *EtcdMedium) Write(ctx context.Context, key string, data []byte) error {
	if _, err := m.client.Put(ctx, m.namespacedKey(key), string(data)); err != nil {
		return fmt.Errorf("%w: %v", tagging.ErrStorageFailed, err)
	}
	return nil
}

// Close closes the etcd connection.
func (m *EtcdMedium) Close() error {
	return m.client.Close()
}
