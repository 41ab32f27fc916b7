package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

// GameExists returns true if the game id is already stored.
func (db *DB) GameExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM processed_games WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame records a processed game. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(s model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO processed_games(id, date, home, away, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Date, s.Home, s.Away, s.HomeScore, s.AwayScore)
	return err
}

// ListGames returns stored games ordered by date then id, newest first.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, home, away, home_score, away_score
		FROM processed_games ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.ID, &s.Date, &s.Home, &s.Away, &s.HomeScore, &s.AwayScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertTeamGameMetrics bulk-inserts both teams' rows in a transaction.
func (db *DB) InsertTeamGameMetrics(ms []model.TeamGameMetrics) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_game_metrics(
			game_id, team_id, abbrev, opponent, venue, won, ot_loss,
			goals_for, goals_against, shots_on_goal, corsi_for, corsi_against,
			xg_for, xg_against,
			high_danger_for, high_danger_against, slot_shots,
			rush_shots, cycle_shots, rebound_shots,
			forecheck_turnovers, takeaways,
			off_zone_giveaways, neutral_giveaways, def_zone_giveaways,
			faceoff_wins, faceoffs_taken,
			entries_carry, entries_pass, entries_dump
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range ms {
		_, err = stmt.Exec(
			m.GameID, m.TeamID, m.Abbrev, m.Opponent, m.Venue,
			boolInt(m.Won), boolInt(m.OTLoss),
			m.GoalsFor, m.GoalsAgainst, m.ShotsOnGoal, m.CorsiFor, m.CorsiAgainst,
			m.XGFor, m.XGAgainst,
			m.HighDangerFor, m.HighDangerAgainst, m.SlotShots,
			m.RushShots, m.CycleShots, m.ReboundShots,
			m.ForecheckTurnovers, m.Takeaways,
			m.OffZoneGiveaways, m.NeutralGiveaways, m.DefZoneGiveaways,
			m.FaceoffWins, m.FaceoffsTaken,
			m.EntriesCarry, m.EntriesPass, m.EntriesDump,
		)
		if err != nil {
			return fmt.Errorf("insert team_game_metrics for %s/%d: %w", m.GameID, m.TeamID, err)
		}
	}
	return tx.Commit()
}

// GetTeamGameMetrics returns the stored rows for one game.
func (db *DB) GetTeamGameMetrics(gameID string) ([]model.TeamGameMetrics, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, team_id, abbrev, opponent, venue, won, ot_loss,
		       goals_for, goals_against, shots_on_goal, corsi_for, corsi_against,
		       xg_for, xg_against,
		       high_danger_for, high_danger_against, slot_shots,
		       rush_shots, cycle_shots, rebound_shots,
		       forecheck_turnovers, takeaways,
		       off_zone_giveaways, neutral_giveaways, def_zone_giveaways,
		       faceoff_wins, faceoffs_taken,
		       entries_carry, entries_pass, entries_dump
		FROM team_game_metrics WHERE game_id = ? ORDER BY venue`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamGameMetrics
	for rows.Next() {
		var m model.TeamGameMetrics
		var won, otl int
		if err := rows.Scan(
			&m.GameID, &m.TeamID, &m.Abbrev, &m.Opponent, &m.Venue, &won, &otl,
			&m.GoalsFor, &m.GoalsAgainst, &m.ShotsOnGoal, &m.CorsiFor, &m.CorsiAgainst,
			&m.XGFor, &m.XGAgainst,
			&m.HighDangerFor, &m.HighDangerAgainst, &m.SlotShots,
			&m.RushShots, &m.CycleShots, &m.ReboundShots,
			&m.ForecheckTurnovers, &m.Takeaways,
			&m.OffZoneGiveaways, &m.NeutralGiveaways, &m.DefZoneGiveaways,
			&m.FaceoffWins, &m.FaceoffsTaken,
			&m.EntriesCarry, &m.EntriesPass, &m.EntriesDump,
		); err != nil {
			return nil, err
		}
		m.Won = won != 0
		m.OTLoss = otl != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertGoalieRecords bulk-inserts goalie game records. The shot log is
// stored as a JSON document per row.
func (db *DB) InsertGoalieRecords(recs []model.GoalieGameRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO goalie_game_records(
			game_id, goalie_id, name, catches, team_id, opponent, venue, decision, shots_json
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		shots, err := json.Marshal(r.Shots)
		if err != nil {
			return fmt.Errorf("marshal shot log for goalie %d: %w", r.GoalieID, err)
		}
		_, err = stmt.Exec(r.GameID, r.GoalieID, r.Name, r.Catches, r.TeamID,
			r.Opponent, r.Venue, r.Decision, string(shots))
		if err != nil {
			return fmt.Errorf("insert goalie_game_records for %d: %w", r.GoalieID, err)
		}
	}
	return tx.Commit()
}

// ListGoalieRecords returns all stored records for one goalie, oldest game
// first.
func (db *DB) ListGoalieRecords(goalieID int) ([]model.GoalieGameRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, goalie_id, name, catches, team_id, opponent, venue, decision, shots_json
		FROM goalie_game_records WHERE goalie_id = ? ORDER BY game_id`, goalieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GoalieGameRecord
	for rows.Next() {
		var r model.GoalieGameRecord
		var shots string
		if err := rows.Scan(&r.GameID, &r.GoalieID, &r.Name, &r.Catches, &r.TeamID,
			&r.Opponent, &r.Venue, &r.Decision, &shots); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(shots), &r.Shots); err != nil {
			return nil, fmt.Errorf("decode shot log for goalie %d: %w", r.GoalieID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertTrajectories stores goal trajectories for later clustering.
func (db *DB) InsertTrajectories(ts []model.Trajectory) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO trajectories(game_id, event_idx, team_id, points_json)
		VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tr := range ts {
		points, err := json.Marshal(tr.Points)
		if err != nil {
			return fmt.Errorf("marshal trajectory points: %w", err)
		}
		if _, err := stmt.Exec(tr.GameID, tr.EventIdx, tr.TeamID, string(points)); err != nil {
			return fmt.Errorf("insert trajectory %s/%d: %w", tr.GameID, tr.EventIdx, err)
		}
	}
	return tx.Commit()
}

// ListTrajectories returns every stored trajectory.
func (db *DB) ListTrajectories() ([]model.Trajectory, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_idx, team_id, points_json
		FROM trajectories ORDER BY game_id, event_idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Trajectory
	for rows.Next() {
		var tr model.Trajectory
		var points string
		if err := rows.Scan(&tr.GameID, &tr.EventIdx, &tr.TeamID, &points); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(points), &tr.Points); err != nil {
			return nil, fmt.Errorf("decode trajectory points: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// SaveSnapshotJSON writes the serialized season accumulator, replacing the
// previous snapshot.
func (db *DB) SaveSnapshotJSON(doc []byte) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO season_snapshot(id, snapshot_json, updated_at)
		VALUES (1, ?, ?)`,
		string(doc), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadSnapshotJSON reads the serialized accumulator. Returns (nil, nil) when
// no snapshot has been written yet.
func (db *DB) LoadSnapshotJSON() ([]byte, error) {
	var doc string
	err := db.conn.QueryRow("SELECT snapshot_json FROM season_snapshot WHERE id = 1").Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

// DeleteGame removes a game and all of its per-game rows.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM processed_games WHERE id = ?",
		"DELETE FROM team_game_metrics WHERE game_id = ?",
		"DELETE FROM goalie_game_records WHERE game_id = ?",
		"DELETE FROM trajectories WHERE game_id = ?",
	} {
		if _, err := tx.Exec(q, gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	return tx.Commit()
}

// AllTeamGameMetrics returns every stored per-game team row, for season
// rebuilds after a drop.
func (db *DB) AllTeamGameMetrics() ([]model.TeamGameMetrics, error) {
	rows, err := db.conn.Query(`
		SELECT game_id FROM team_game_metrics GROUP BY game_id ORDER BY game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []model.TeamGameMetrics
	for _, id := range ids {
		ms, err := db.GetTeamGameMetrics(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return out, nil
}

// AllGoalieRecords returns every stored goalie record ordered by game id.
func (db *DB) AllGoalieRecords() ([]model.GoalieGameRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, goalie_id, name, catches, team_id, opponent, venue, decision, shots_json
		FROM goalie_game_records ORDER BY game_id, goalie_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GoalieGameRecord
	for rows.Next() {
		var r model.GoalieGameRecord
		var shots string
		if err := rows.Scan(&r.GameID, &r.GoalieID, &r.Name, &r.Catches, &r.TeamID,
			&r.Opponent, &r.Venue, &r.Decision, &shots); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(shots), &r.Shots); err != nil {
			return nil, fmt.Errorf("decode shot log for goalie %d: %w", r.GoalieID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
