package store

import (
	"database/sql"
	"fmt"

	"taiwan-lottery-bot/internal/config"
	"taiwan-lottery-bot/internal/engine"
	"taiwan-lottery-bot/internal/logger"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore 开奖历史与预测记录的MySQL存储
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore 创建存储并初始化表结构
func NewMySQLStore(cfg *config.Database) (*MySQLStore, error) {
	db, err := sql.Open("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &MySQLStore{db: db}
	if err := store.createTablesIfNotExists(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}
	return store, nil
}

// Close 关闭数据库连接
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// SaveDraw 保存一期开奖数据（按游戏+期号幂等）
func (s *MySQLStore) SaveDraw(row *DrawRow) error {
	query := `INSERT INTO draw_results (game_id, period, draw_date, numbers, special)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  draw_date = VALUES(draw_date),
			  numbers = VALUES(numbers),
			  special = VALUES(special),
			  updated_at = CURRENT_TIMESTAMP`

	_, err := s.db.Exec(query, row.GameID, row.Period, row.DrawDate, row.Numbers, row.Special)
	if err != nil {
		return fmt.Errorf("failed to save draw result: %v", err)
	}
	logger.Debugf("Saved draw result: %s %s", row.GameID, row.Period)
	return nil
}

// FetchHistory 实现engine.HistoryProvider：按期号倒序返回原始开奖行
// 行内格式问题不在此处理，交由引擎的窗口校验剔除
func (s *MySQLStore) FetchHistory(gameID string, periods int) ([]engine.RawDraw, error) {
	query := `SELECT period, draw_date, numbers, special
			  FROM draw_results
			  WHERE game_id = ?
			  ORDER BY period DESC
			  LIMIT ?`

	rows, err := s.db.Query(query, gameID, periods)
	if err != nil {
		return nil, fmt.Errorf("failed to query draw history: %v", err)
	}
	defer rows.Close()

	var raws []engine.RawDraw
	for rows.Next() {
		var period, drawDate, numbers string
		var special sql.NullInt64
		if err := rows.Scan(&period, &drawDate, &numbers, &special); err != nil {
			return nil, fmt.Errorf("failed to scan draw row: %v", err)
		}

		raw := engine.RawDraw{Period: period, Date: drawDate}
		if nums, err := ParseNumbers(numbers); err == nil {
			raw.Numbers = nums
		}
		if special.Valid {
			v := int(special.Int64)
			raw.Special = &v
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading draw history rows: %v", err)
	}
	return raws, nil
}

// Persist 实现engine.PredictionSink：落地预测记录
func (s *MySQLStore) Persist(record *engine.PredictionRecord) error {
	query := `INSERT INTO predictions (game_id, predicted_numbers, predicted_special, method, confidence, window_size, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, record.GameID, FormatNumbers(record.PredictedNumbers),
		record.PredictedSpecial, string(record.Method), record.Confidence,
		record.WindowSize, record.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %v", err)
	}
	logger.Debugf("Saved prediction for game: %s", record.GameID)
	return nil
}

// GetLatestDraw 获取某游戏最新一期开奖
func (s *MySQLStore) GetLatestDraw(gameID string) (*DrawRow, error) {
	query := `SELECT id, game_id, period, draw_date, numbers, special, created_at, updated_at
			  FROM draw_results
			  WHERE game_id = ?
			  ORDER BY period DESC
			  LIMIT 1`

	var row DrawRow
	err := s.db.QueryRow(query, gameID).Scan(&row.ID, &row.GameID, &row.Period,
		&row.DrawDate, &row.Numbers, &row.Special, &row.CreatedAt, &row.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw: %v", err)
	}
	return &row, nil
}

// GetLatestPredictions 获取某游戏最新的预测记录
func (s *MySQLStore) GetLatestPredictions(gameID string, limit int) ([]PredictionRow, error) {
	query := `SELECT id, game_id, predicted_numbers, predicted_special, method, confidence,
			  window_size, hit_count, verified_at, created_at
			  FROM predictions
			  WHERE game_id = ?
			  ORDER BY created_at DESC
			  LIMIT ?`

	rows, err := s.db.Query(query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %v", err)
	}
	defer rows.Close()

	var predictions []PredictionRow
	for rows.Next() {
		var p PredictionRow
		if err := rows.Scan(&p.ID, &p.GameID, &p.PredictedNumbers, &p.PredictedSpecial,
			&p.Method, &p.Confidence, &p.WindowSize, &p.HitCount, &p.VerifiedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %v", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// VerifyPredictions 用新开奖对照未验证的预测，记录命中号码数
func (s *MySQLStore) VerifyPredictions(gameID string, draw *DrawRow) (int, error) {
	query := `SELECT id, predicted_numbers FROM predictions
			  WHERE game_id = ? AND verified_at IS NULL AND created_at < (
				  SELECT created_at FROM draw_results WHERE game_id = ? AND period = ?
			  )`

	rows, err := s.db.Query(query, gameID, gameID, draw.Period)
	if err != nil {
		return 0, fmt.Errorf("failed to query unverified predictions: %v", err)
	}
	defer rows.Close()

	type pending struct {
		id      int64
		numbers string
	}
	var pendings []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.numbers); err != nil {
			return 0, fmt.Errorf("failed to scan unverified prediction: %v", err)
		}
		pendings = append(pendings, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	actual, err := ParseNumbers(draw.Numbers)
	if err != nil {
		return 0, fmt.Errorf("failed to parse actual numbers: %v", err)
	}
	actualSet := make(map[int]bool, len(actual))
	for _, n := range actual {
		actualSet[n] = true
	}

	verified := 0
	for _, p := range pendings {
		predicted, err := ParseNumbers(p.numbers)
		if err != nil {
			logger.Warnf("Skipping prediction %d with unparsable numbers: %v", p.id, err)
			continue
		}
		hits := 0
		for _, n := range predicted {
			if actualSet[n] {
				hits++
			}
		}
		update := `UPDATE predictions SET hit_count = ?, verified_at = NOW() WHERE id = ?`
		if _, err := s.db.Exec(update, hits, p.id); err != nil {
			return verified, fmt.Errorf("failed to update prediction %d: %v", p.id, err)
		}
		verified++
	}
	return verified, nil
}

// GetPredictionStats 某游戏的预测统计
func (s *MySQLStore) GetPredictionStats(gameID string) (*PredictionStats, error) {
	query := `SELECT
		COUNT(*) as total,
		SUM(CASE WHEN verified_at IS NOT NULL THEN 1 ELSE 0 END) as verified,
		COALESCE(AVG(hit_count), 0) as avg_hits,
		COALESCE(AVG(confidence), 0) as avg_confidence
	FROM predictions
	WHERE game_id = ?`

	stats := &PredictionStats{GameID: gameID}
	err := s.db.QueryRow(query, gameID).Scan(&stats.TotalPredictions, &stats.Verified,
		&stats.AverageHits, &stats.AverageConfidence)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction stats: %v", err)
	}
	return stats, nil
}

// createTablesIfNotExists 自动创建表结构
func (s *MySQLStore) createTablesIfNotExists() error {
	createDrawResults := `CREATE TABLE IF NOT EXISTS draw_results (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		game_id VARCHAR(32) NOT NULL COMMENT '游戏ID',
		period VARCHAR(20) NOT NULL COMMENT '期号',
		draw_date VARCHAR(20) NOT NULL COMMENT '开奖日期',
		numbers VARCHAR(120) NOT NULL COMMENT '开奖号码',
		special INT DEFAULT NULL COMMENT '特别号',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP COMMENT '记录创建时间',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP COMMENT '记录更新时间',
		UNIQUE KEY uk_game_period (game_id, period),
		INDEX idx_game_period (game_id, period),
		INDEX idx_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='开奖数据表'`

	if _, err := s.db.Exec(createDrawResults); err != nil {
		return fmt.Errorf("failed to create draw_results table: %v", err)
	}

	createPredictions := `CREATE TABLE IF NOT EXISTS predictions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		game_id VARCHAR(32) NOT NULL COMMENT '游戏ID',
		predicted_numbers VARCHAR(120) NOT NULL COMMENT '预测号码',
		predicted_special INT DEFAULT NULL COMMENT '预测特别号',
		method VARCHAR(20) NOT NULL COMMENT '预测方法',
		confidence DECIMAL(5,3) NOT NULL COMMENT '信心度',
		window_size INT NOT NULL COMMENT '窗口期数',
		hit_count INT DEFAULT NULL COMMENT '命中号码数',
		verified_at TIMESTAMP NULL COMMENT '验证时间',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP COMMENT '预测时间',
		INDEX idx_game_created (game_id, created_at),
		INDEX idx_verified_at (verified_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='预测记录表'`

	if _, err := s.db.Exec(createPredictions); err != nil {
		return fmt.Errorf("failed to create predictions table: %v", err)
	}
	return nil
}
