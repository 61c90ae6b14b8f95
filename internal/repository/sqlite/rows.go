package sqlite

import (
	"time"

	"github.com/maxviazov/nba-stats-manager/internal/model"
)

// playerRow is the gorm mapping of the players table.
type playerRow struct {
	PlayerID        int64     `gorm:"column:player_id;primaryKey;autoIncrement:false"`
	PlayerName      string    `gorm:"column:player_name;not null"`
	TeamName        *string   `gorm:"column:team_name"`
	Position        *string   `gorm:"column:position"`
	GamesPlayed     int       `gorm:"column:games_played;not null"`
	PointsPerGame   float64   `gorm:"column:points_per_game;not null;index:idx_players_points,sort:desc"`
	ReboundsPerGame float64   `gorm:"column:rebounds_per_game;not null"`
	AssistsPerGame  float64   `gorm:"column:assists_per_game;not null"`
	StealsPerGame   float64   `gorm:"column:steals_per_game;not null"`
	BlocksPerGame   float64   `gorm:"column:blocks_per_game;not null"`
	FieldGoalPct    float64   `gorm:"column:field_goal_pct;not null"`
	ThreePointPct   float64   `gorm:"column:three_point_pct;not null"`
	FreeThrowPct    float64   `gorm:"column:free_throw_pct;not null"`
	Season          string    `gorm:"column:season;not null"`
	LastUpdated     time.Time `gorm:"column:last_updated;not null"`
}

func (playerRow) TableName() string { return "players" }

func toPlayerRow(r model.PlayerSeasonRecord, now time.Time) playerRow {
	return playerRow{
		PlayerID:        r.PlayerID,
		PlayerName:      r.PlayerName,
		TeamName:        r.TeamName,
		Position:        r.Position,
		GamesPlayed:     r.GamesPlayed,
		PointsPerGame:   r.Points,
		ReboundsPerGame: r.Rebounds,
		AssistsPerGame:  r.Assists,
		StealsPerGame:   r.Steals,
		BlocksPerGame:   r.Blocks,
		FieldGoalPct:    r.FieldGoalPct,
		ThreePointPct:   r.ThreePointPct,
		FreeThrowPct:    r.FreeThrowPct,
		Season:          r.Season,
		LastUpdated:     now,
	}
}

func (p playerRow) record() model.PlayerSeasonRecord {
	return model.PlayerSeasonRecord{
		PlayerID:      p.PlayerID,
		PlayerName:    p.PlayerName,
		TeamName:      p.TeamName,
		Position:      p.Position,
		GamesPlayed:   p.GamesPlayed,
		Points:        p.PointsPerGame,
		Rebounds:      p.ReboundsPerGame,
		Assists:       p.AssistsPerGame,
		Steals:        p.StealsPerGame,
		Blocks:        p.BlocksPerGame,
		FieldGoalPct:  p.FieldGoalPct,
		ThreePointPct: p.ThreePointPct,
		FreeThrowPct:  p.FreeThrowPct,
		Season:        p.Season,
		LastUpdated:   p.LastUpdated.UTC(),
	}
}

type teamRow struct {
	TeamID      int64     `gorm:"column:team_id;primaryKey;autoIncrement:false"`
	TeamName    string    `gorm:"column:team_name;not null"`
	Wins        int       `gorm:"column:wins;not null"`
	Losses      int       `gorm:"column:losses;not null"`
	WinPct      float64   `gorm:"column:win_pct;not null"`
	Season      string    `gorm:"column:season;not null;index"`
	LastUpdated time.Time `gorm:"column:last_updated;not null"`
}

func (teamRow) TableName() string { return "teams" }

func (t teamRow) record() model.TeamSeasonRecord {
	return model.TeamSeasonRecord{
		TeamID:      t.TeamID,
		TeamName:    t.TeamName,
		Wins:        t.Wins,
		Losses:      t.Losses,
		WinPct:      t.WinPct,
		Season:      t.Season,
		LastUpdated: t.LastUpdated.UTC(),
	}
}
