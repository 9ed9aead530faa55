// Package valkey implements the baseline snapshot tier on a valkey
// instance. The whole settings document lives as one JSON value under a
// single key: it is only ever read at load time and written at explicit
// save time, never synced in the background.
package valkey

import (
	"context"
	"fmt"
	"log"

	"github.com/plantview/roadview-backend/internal/models"
	"github.com/valkey-io/valkey-go"
)

// BaselineStore persists the deploy-time settings document in valkey.
type BaselineStore struct {
	client valkey.Client
	key    string
}

// NewBaselineStore connects to valkey at the given address and verifies
// the connection.
func NewBaselineStore(addr, key string) (*BaselineStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}

	if err := client.Do(context.Background(), client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	log.Printf("[Valkey] Connected to %s, baseline key %q", addr, key)
	return &BaselineStore{client: client, key: key}, nil
}

// Load fetches the baseline document. A missing key returns (nil, nil):
// no settings have ever been saved, which is not an error.
func (s *BaselineStore) Load(ctx context.Context) (*models.SettingsDocument, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch baseline snapshot: %w", err)
	}

	doc, err := models.ParseSettings([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse baseline snapshot: %w", err)
	}
	return doc, nil
}

// Save writes the baseline document.
func (s *BaselineStore) Save(ctx context.Context, doc *models.SettingsDocument) error {
	data, err := doc.MarshalForStorage()
	if err != nil {
		return err
	}
	if err := s.client.Do(ctx, s.client.B().Set().Key(s.key).Value(string(data)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to write baseline snapshot: %w", err)
	}
	log.Printf("[Valkey] Saved baseline snapshot (%d bytes)", len(data))
	return nil
}

// Close releases the valkey connection.
func (s *BaselineStore) Close() {
	s.client.Close()
}
