package postgres

import (
	"context"
	"errors"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
)

func (s *Store) UpsertTeams(ctx context.Context, teams []model.TeamSeasonRecord) (model.UpsertResult, error) {
	if err := ensurePool(s.pool); err != nil {
		return model.UpsertResult{}, err
	}
	valid, rejected := repository.PrepareTeams(teams)
	res := model.UpsertResult{Rejected: rejected}
	for _, it := range valid {
		t := it.Team
		_, err := getQ(ctx, s.pool).Exec(ctx,
			`INSERT INTO teams (team_id, team_name, wins, losses, win_pct, season, last_updated)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (team_id) DO UPDATE SET
				team_name = EXCLUDED.team_name,
				wins = EXCLUDED.wins,
				losses = EXCLUDED.losses,
				win_pct = EXCLUDED.win_pct,
				season = EXCLUDED.season,
				last_updated = NOW()`,
			t.TeamID, t.TeamName, t.Wins, t.Losses, t.WinPct, t.Season,
		)
		if err = repository.MapPgError(err); err != nil {
			if errors.Is(err, repository.ErrValidation) {
				res.Rejected = append(res.Rejected, model.RejectedRecord{Index: it.Index, Reason: err.Error()})
				continue
			}
			return res, err
		}
		res.Applied++
	}
	return res, nil
}

func (s *Store) ListTeams(ctx context.Context, season string) ([]model.TeamSeasonRecord, error) {
	if err := ensurePool(s.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, s.pool).Query(ctx,
		`SELECT team_id, team_name, wins, losses, win_pct, season, last_updated
		 FROM teams
		 WHERE ($1 = '' OR season = $1)
		 ORDER BY win_pct DESC, team_id ASC`,
		season,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.TeamSeasonRecord, 0)
	for rows.Next() {
		var t model.TeamSeasonRecord
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.Wins, &t.Losses, &t.WinPct, &t.Season, &t.LastUpdated); err != nil {
			return nil, repository.MapPgError(err)
		}
		t.LastUpdated = t.LastUpdated.UTC()
		out = append(out, t)
	}
	return out, repository.MapPgError(rows.Err())
}
