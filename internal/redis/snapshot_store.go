package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// SnapshotStore implements domain.SnapshotRepository. One key per user,
// overwritten on every save, so Latest is a plain GET.
type SnapshotStore struct {
	rdb *goredis.Client
}

var _ domain.SnapshotRepository = (*SnapshotStore)(nil)

func NewSnapshotStore(client *Client) *SnapshotStore {
	return &SnapshotStore{rdb: client.rdb}
}

func snapshotKey(userID uuid.UUID) string {
	return "snapshot:" + userID.String()
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.rdb.Set(ctx, snapshotKey(snapshot.UserID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Latest(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error) {
	payload, err := s.rdb.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
