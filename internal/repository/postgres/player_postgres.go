package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
)

const playerColumns = `player_id, player_name, team_name, position, games_played,
	points_per_game, rebounds_per_game, assists_per_game, steals_per_game, blocks_per_game,
	field_goal_pct, three_point_pct, free_throw_pct, season, last_updated`

const upsertPlayerSQL = `INSERT INTO players (` + playerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	ON CONFLICT (player_id) DO UPDATE SET
		player_name       = EXCLUDED.player_name,
		team_name         = EXCLUDED.team_name,
		position          = EXCLUDED.position,
		games_played      = EXCLUDED.games_played,
		points_per_game   = EXCLUDED.points_per_game,
		rebounds_per_game = EXCLUDED.rebounds_per_game,
		assists_per_game  = EXCLUDED.assists_per_game,
		steals_per_game   = EXCLUDED.steals_per_game,
		blocks_per_game   = EXCLUDED.blocks_per_game,
		field_goal_pct    = EXCLUDED.field_goal_pct,
		three_point_pct   = EXCLUDED.three_point_pct,
		free_throw_pct    = EXCLUDED.free_throw_pct,
		season            = EXCLUDED.season,
		last_updated      = NOW()`

// UpsertBatch writes each valid record in its own transaction.
// Constraint violations reject the record; any other failure stops the batch.
func (s *Store) UpsertBatch(ctx context.Context, records []model.PlayerSeasonRecord) (model.UpsertResult, error) {
	if err := ensurePool(s.pool); err != nil {
		return model.UpsertResult{}, err
	}
	valid, rejected := repository.PrepareBatch(records)
	res := model.UpsertResult{Rejected: rejected}

	for _, it := range valid {
		r := it.Record
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := getQ(ctx, s.pool).Exec(ctx, upsertPlayerSQL,
				r.PlayerID, r.PlayerName, r.TeamName, r.Position, r.GamesPlayed,
				r.Points, r.Rebounds, r.Assists, r.Steals, r.Blocks,
				r.FieldGoalPct, r.ThreePointPct, r.FreeThrowPct, r.Season,
			)
			return err
		})
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, repository.ErrValidation):
			res.Rejected = append(res.Rejected, model.RejectedRecord{Index: it.Index, PlayerID: r.PlayerID, Reason: err.Error()})
		default:
			s.log.Error().Err(err).Int64("player_id", r.PlayerID).Int("applied", res.Applied).Msg("upsert aborted")
			return res, err
		}
	}
	return res, nil
}

func (s *Store) TopScorers(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultTopLimit
	}
	return s.queryPlayers(ctx,
		`SELECT `+playerColumns+` FROM players
		 WHERE games_played > $1
		 ORDER BY points_per_game DESC, player_id ASC
		 LIMIT $2`,
		repository.TopScorersMinGames, limit,
	)
}

func (s *Store) TeamStats(ctx context.Context, teamSubstring string) ([]model.PlayerSeasonRecord, error) {
	return s.queryPlayers(ctx,
		`SELECT `+playerColumns+` FROM players
		 WHERE team_name IS NOT NULL AND LOWER(team_name) LIKE $1 ESCAPE '\'
		 ORDER BY points_per_game DESC, player_id ASC`,
		repository.LikePattern(teamSubstring),
	)
}

func (s *Store) FullScan(ctx context.Context) ([]model.PlayerSeasonRecord, error) {
	return s.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players ORDER BY player_id`)
}

func (s *Store) queryPlayers(ctx context.Context, query string, args ...any) ([]model.PlayerSeasonRecord, error) {
	if err := ensurePool(s.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.PlayerSeasonRecord, 0)
	for rows.Next() {
		r, err := scanPlayer(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func scanPlayer(row pgx.Row) (model.PlayerSeasonRecord, error) {
	var r model.PlayerSeasonRecord
	err := row.Scan(
		&r.PlayerID, &r.PlayerName, &r.TeamName, &r.Position, &r.GamesPlayed,
		&r.Points, &r.Rebounds, &r.Assists, &r.Steals, &r.Blocks,
		&r.FieldGoalPct, &r.ThreePointPct, &r.FreeThrowPct, &r.Season, &r.LastUpdated,
	)
	if err != nil {
		return model.PlayerSeasonRecord{}, err
	}
	r.LastUpdated = r.LastUpdated.UTC()
	return r, nil
}
