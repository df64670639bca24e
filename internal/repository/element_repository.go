package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// ElementRepository доступ к реестру изображений-элементов.
// Владелец 0 обозначает глобальные элементы, в БД они хранятся с user_id NULL.
type ElementRepository struct {
	pool *pgxpool.Pool
}

func NewElementRepository(pool *pgxpool.Pool) *ElementRepository {
	return &ElementRepository{pool: pool}
}

const elementColumns = `element_id, user_id, name, file_id_photo, file_id_document, display_order`

// GetByID получает элемент по идентификатору в пределах владельца
func (r *ElementRepository) GetByID(ctx context.Context, ownerID int64, elementID string) (*model.ImageElement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM image_elements
		WHERE COALESCE(user_id, 0) = $1 AND element_id = $2
	`, elementColumns)

	return r.scanOne(r.pool.QueryRow(ctx, query, ownerID, elementID))
}

// GetByName находит элемент по имени в пределах владельца
func (r *ElementRepository) GetByName(ctx context.Context, ownerID int64, name string) (*model.ImageElement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM image_elements
		WHERE COALESCE(user_id, 0) = $1 AND name = $2
	`, elementColumns)

	return r.scanOne(r.pool.QueryRow(ctx, query, ownerID, name))
}

// List возвращает элементы владельца в порядке отображения
func (r *ElementRepository) List(ctx context.Context, ownerID int64) ([]*model.ImageElement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM image_elements
		WHERE COALESCE(user_id, 0) = $1
		ORDER BY display_order ASC
	`, elementColumns)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	var elements []*model.ImageElement
	for rows.Next() {
		var e model.ImageElement
		if err := rows.Scan(&e.ElementID, &e.UserID, &e.Name, &e.FileIDPhoto, &e.FileIDDocument, &e.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		elements = append(elements, &e)
	}
	return elements, rows.Err()
}

// Create сохраняет новый элемент
func (r *ElementRepository) Create(ctx context.Context, element *model.ImageElement) error {
	query := `
		INSERT INTO image_elements (element_id, user_id, name, file_id_photo, file_id_document, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(
		ctx, query,
		element.ElementID,
		element.UserID,
		element.Name,
		element.FileIDPhoto,
		element.FileIDDocument,
		element.DisplayOrder,
	)
	if err != nil {
		return fmt.Errorf("create element: %w", err)
	}
	return nil
}

func (r *ElementRepository) scanOne(row interface{ Scan(...any) error }) (*model.ImageElement, error) {
	var e model.ImageElement
	err := row.Scan(&e.ElementID, &e.UserID, &e.Name, &e.FileIDPhoto, &e.FileIDDocument, &e.DisplayOrder)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
