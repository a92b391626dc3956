// package store persists the bet log in sqlite. The log is the
// authoritative record of the market; the live quantity vector is
// rebuilt from it on startup via Fold.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/hrjole/poolfutures/pkg/market"
)

type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(dbName string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", dbName)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// Append durably records one committed bet. The single INSERT is the
// durable unit; ordering comes from sqlite's rowid, which follows
// insertion order.
func (s *SqliteStore) Append(ctx context.Context, bet *market.Bet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (uuid, actor, outcome, shares, cost, placed_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		bet.ID, bet.Actor, bet.Outcome, bet.Shares, bet.Cost,
		bet.PlacedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Bets returns the bet log in commit order. If actor is non-empty only
// that actor's bets are returned.
func (s *SqliteStore) Bets(ctx context.Context, actor string) ([]*market.Bet, error) {
	wheres := []string{}
	wheresVars := []any{}

	if actor != "" {
		wheres = append(wheres, `actor = ?`)
		wheresVars = append(wheresVars, actor)
	}

	whereRendered := ""
	if len(wheres) > 0 {
		whereRendered = "WHERE " + strings.Join(wheres, " AND ")
	}
	fullQuery := fmt.Sprintf(`
		SELECT uuid, actor, outcome, shares, cost, placed_at
		FROM bets
		%s
		ORDER BY rowid
	`, whereRendered)
	log.Debug().Str("fullQuery", fullQuery).Str("storeMethod", "Bets").Msg("executing-query")
	rows, err := s.db.QueryContext(ctx, fullQuery, wheresVars...)
	if err != nil {
		return nil, err
	}
	bets := []*market.Bet{}
	defer rows.Close()
	for rows.Next() {
		bet := &market.Bet{}
		var placedAt string
		err = rows.Scan(&bet.ID, &bet.Actor, &bet.Outcome, &bet.Shares, &bet.Cost, &placedAt)
		if err != nil {
			return nil, err
		}
		bet.PlacedAt, err = time.Parse(time.RFC3339Nano, placedAt)
		if err != nil {
			return nil, err
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// Fold replays the whole bet log into a quantity map over the given
// outcome set. A logged bet on an outcome outside the set means the
// database belongs to a different market config and is an error.
func (s *SqliteStore) Fold(ctx context.Context, outcomes []string) (map[string]int64, error) {
	quantities := make(map[string]int64, len(outcomes))
	for _, o := range outcomes {
		quantities[o] = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, shares
		FROM bets
		ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var outcome string
		var shares int64
		if err := rows.Scan(&outcome, &shares); err != nil {
			return nil, err
		}
		if _, ok := quantities[outcome]; !ok {
			return nil, fmt.Errorf("logged bet on %q, which is not in the configured outcomes", outcome)
		}
		quantities[outcome] += shares
	}
	return quantities, rows.Err()
}
