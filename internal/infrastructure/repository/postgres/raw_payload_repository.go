package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironai/gameday/internal/domain/rawdata"
)

const upsertRawPayloadQuery = `
INSERT INTO raw_payloads (
    source, entity_type, entity_key, game_id, team_id, payload, payload_hash, fetched_at
) VALUES (
    :source, :entity_type, :entity_key, :game_id, :team_id, :payload, :payload_hash, :fetched_at
)
ON CONFLICT (source, entity_key)
DO UPDATE SET
    entity_type = EXCLUDED.entity_type,
    game_id = EXCLUDED.game_id,
    team_id = EXCLUDED.team_id,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at`

type RawPayloadRepository struct {
	db *sqlx.DB
}

func NewRawPayloadRepository(db *sqlx.DB) *RawPayloadRepository {
	return &RawPayloadRepository{db: db}
}

func (r *RawPayloadRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		model := rawPayloadInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			GameID:      nullableColumn(item.GameID),
			TeamID:      nullableColumn(item.TeamID),
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}
		if _, err := tx.NamedExecContext(ctx, upsertRawPayloadQuery, model); err != nil {
			return fmt.Errorf("upsert raw payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}

	return nil
}

type rawPayloadInsertModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	GameID      *string   `db:"game_id"`
	TeamID      *string   `db:"team_id"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

func nullableColumn(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
