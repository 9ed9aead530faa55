// Package persistence merges the two settings tiers (the deploy-time
// baseline and the local snapshot) and pushes edited state back to both.
// The local tier always wins per key on load; the write path always
// targets local first and the baseline second and independently.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/plantview/roadview-backend/internal/models"
)

// ErrBaselinePush marks a failed baseline write. The local tier has
// already been written when this comes back: the edits stand, they are
// just not durably shared yet.
var ErrBaselinePush = errors.New("baseline save failed")

// BaselineStore is the server-held settings tier.
type BaselineStore interface {
	// Load returns the baseline document, or (nil, nil) when none exists.
	Load(ctx context.Context) (*models.SettingsDocument, error)
	// Save replaces the baseline document.
	Save(ctx context.Context, doc *models.SettingsDocument) error
}

// LocalStore is the local snapshot tier. Its writes are synchronous.
type LocalStore interface {
	Load() (*models.SettingsDocument, error)
	Save(doc *models.SettingsDocument) error
}

// Bridge owns the authority ordering between the two tiers.
type Bridge struct {
	baseline BaselineStore
	local    LocalStore
	now      func() time.Time
}

// NewBridge wires the two tiers together.
func NewBridge(baseline BaselineStore, local LocalStore) *Bridge {
	return &Bridge{baseline: baseline, local: local, now: time.Now}
}

// Load fetches both snapshots and merges them with local precedence.
// Failure of either tier degrades to the next-lower source rather than
// failing the session: a usable (possibly empty) document always comes
// back.
func (b *Bridge) Load(ctx context.Context) *models.SettingsDocument {
	baseline, err := b.baseline.Load(ctx)
	if err != nil {
		log.Printf("[Persistence] Baseline load failed, continuing without it: %v", err)
		baseline = nil
	}

	local, err := b.local.Load()
	if err != nil {
		log.Printf("[Persistence] Local snapshot unreadable, continuing without it: %v", err)
		local = nil
	}

	return models.MergeSettings(baseline, local)
}

// SaveLocal persists the document to the local tier synchronously.
func (b *Bridge) SaveLocal(doc *models.SettingsDocument) error {
	return b.local.Save(doc)
}

// PushBaseline writes the document to the baseline tier. Failures here
// are surfaced to the user with their reason: the edits remain valid
// locally but are not yet durably shared.
func (b *Bridge) PushBaseline(ctx context.Context, doc *models.SettingsDocument) error {
	if err := b.baseline.Save(ctx, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBaselinePush, err)
	}
	return nil
}

// Export encodes the document for download and returns the dated file
// name. The bytes are identical in shape to both persisted tiers; nothing
// marks where the data originated.
func (b *Bridge) Export(doc *models.SettingsDocument) (data []byte, filename string, err error) {
	data, err = doc.MarshalForStorage()
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode export: %w", err)
	}
	filename = fmt.Sprintf("roadview-data-%s.json", b.now().Format("2006-01-02"))
	return data, filename, nil
}

// Import parses a user-supplied document and persists it to the local
// tier. A malformed file fails before anything is touched; nothing is
// partially applied.
func (b *Bridge) Import(data []byte) (*models.SettingsDocument, error) {
	doc, err := models.ParseSettings(data)
	if err != nil {
		return nil, err
	}
	if err := b.local.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
