package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/minilink/shortener/internal/database"
	"github.com/minilink/shortener/internal/model"
)

// LinkRepository реализует хранение ссылок в PostgreSQL.
// Уникальность short_code обеспечивает ограничение links_short_code_key:
// генератор кодов сам по себе её не гарантирует.
type LinkRepository struct {
	db *database.DB
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db *database.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Save сохраняет новую ссылку. Конфликт по short_code возвращается
// как model.ErrShortCodeTaken, чтобы сервис мог перегенерировать код.
func (r *LinkRepository) Save(ctx context.Context, link *model.Link) error {
	query := `INSERT INTO links (id, owner_id, origin, short_code, remarks, expires_at)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING created_at, updated_at`

	err := r.db.Pool.QueryRow(ctx, query,
		link.ID, link.OwnerID, link.Origin, link.ShortCode, link.Remarks, link.ExpiresAt,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if isShortCodeConflict(err) {
			return fmt.Errorf("%w: %s", model.ErrShortCodeTaken, link.ShortCode)
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetByShortCode извлекает ссылку по короткому коду.
func (r *LinkRepository) GetByShortCode(ctx context.Context, code string) (*model.Link, error) {
	query := `SELECT id, owner_id, origin, short_code, remarks, expires_at, clicks, created_at, updated_at
              FROM links WHERE short_code = $1`

	link := &model.Link{}
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&link.ID, &link.OwnerID, &link.Origin, &link.ShortCode, &link.Remarks,
		&link.ExpiresAt, &link.Clicks, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: short code %s", model.ErrNotFound, code)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return link, nil
}

// Update перезаписывает изменяемые поля ссылки. Новый short_code
// (если URL менялся) также проходит через уникальный индекс.
func (r *LinkRepository) Update(ctx context.Context, link *model.Link) error {
	query := `UPDATE links
              SET origin = $2, short_code = $3, remarks = $4, expires_at = $5, updated_at = now()
              WHERE id = $1
              RETURNING updated_at`

	err := r.db.Pool.QueryRow(ctx, query,
		link.ID, link.Origin, link.ShortCode, link.Remarks, link.ExpiresAt,
	).Scan(&link.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: link %s", model.ErrNotFound, link.ID)
		}
		if isShortCodeConflict(err) {
			return fmt.Errorf("%w: %s", model.ErrShortCodeTaken, link.ShortCode)
		}
		return fmt.Errorf("database update error: %w", err)
	}
	return nil
}

// ListByOwner возвращает страницу ссылок владельца (новые первыми)
// и общее количество его ссылок.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Link, int, error) {
	query := `SELECT id, owner_id, origin, short_code, remarks, expires_at, clicks, created_at, updated_at
              FROM links WHERE owner_id = $1
              ORDER BY created_at DESC
              LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query links by owner: %w", err)
	}
	defer rows.Close()

	var results []*model.Link
	for rows.Next() {
		link := &model.Link{}
		err := rows.Scan(
			&link.ID, &link.OwnerID, &link.Origin, &link.ShortCode, &link.Remarks,
			&link.ExpiresAt, &link.Clicks, &link.CreatedAt, &link.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	var total int
	err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count links: %w", err)
	}

	return results, total, nil
}

// DeleteByIDForOwner удаляет ссылку владельца. Чужая или отсутствующая
// ссылка даёт false — наружу это уходит как NotFound, не Unauthorized.
func (r *LinkRepository) DeleteByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementClicks атомарно увеличивает счётчик кликов на единицу.
// Инкремент выполняется на стороне БД, параллельные редиректы
// друг друга не затирают.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE links SET clicks = clicks + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: link %s", model.ErrNotFound, id)
	}
	return nil
}

// Ping проверяет доступность базы данных.
func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// isShortCodeConflict распознаёт нарушение уникального индекса short_code.
func isShortCodeConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "links_short_code_key"
}
