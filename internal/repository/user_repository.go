package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/D-Sokol/schedule-bot/internal/repository/base"
)

// UserRepository доступ к сохранённым данным пользователей.
// Идентификатор 0 хранит глобальные значения.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetLastSchedule возвращает последний сохранённый текст расписания.
// Пустая строка означает, что расписание ещё не сохранялось.
func (r *UserRepository) GetLastSchedule(ctx context.Context, userID int64) (string, error) {
	query := `SELECT COALESCE(last_schedule, '') FROM users WHERE id = $1`

	var text string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&text)
	if base.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get last schedule: %w", err)
	}
	return text, nil
}

// UpdateLastSchedule сохраняет текст расписания пользователя
func (r *UserRepository) UpdateLastSchedule(ctx context.Context, userID int64, text string) error {
	query := `
		INSERT INTO users (id, last_schedule)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET last_schedule = EXCLUDED.last_schedule
	`

	if _, err := r.pool.Exec(ctx, query, userID, text); err != nil {
		return fmt.Errorf("update last schedule: %w", err)
	}
	return nil
}
