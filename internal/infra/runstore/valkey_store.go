package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// ValkeyStore caches runs in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "intents"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) SaveLatest(ctx context.Context, run intent.Run, ttl time.Duration) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.runKey(run.Corpus)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Latest(ctx context.Context, corpus string) (intent.Run, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.runKey(corpus)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return intent.Run{}, false, nil
		}
		return intent.Run{}, false, err
	}
	var run intent.Run
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return intent.Run{}, false, err
	}
	return run, true, nil
}

func (s *ValkeyStore) runKey(corpus string) string {
	return fmt.Sprintf("%s:run:%s", s.prefix, corpus)
}

var _ intent.Store = (*ValkeyStore)(nil)
