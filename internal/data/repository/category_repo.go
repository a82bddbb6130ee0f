package repository

import (
	"context"
	"errors"
	"fmt"

	"crowdfunding/internal/data/entity"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository shares the named lookup shape of categories.
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Tag, error)
	FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Tag, error)
	FindAll(ctx context.Context) ([]*entity.Tag, error)
	Update(ctx context.Context, tag *entity.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// lookupTable implements CRUD over an (id, name, created_at) table.
type lookupTable struct {
	db    database.Querier
	log   *zap.Logger
	table string
	name  string
}

func (t *lookupTable) create(ctx context.Context, row *entity.BaseSimple, name string) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, created_at) VALUES ($1, $2, $3)`, t.table)

	_, err := t.db.Exec(ctx, query, row.ID, name, row.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("%s %q already exists: %w", t.name, name, apperrors.ErrConflict)
		}
		t.log.Error("Failed to create "+t.name, zap.Error(err), zap.String("name", name))
		return fmt.Errorf("create %s: %w", t.name, err)
	}
	return nil
}

func (t *lookupTable) findByID(ctx context.Context, id uuid.UUID) (*entity.BaseSimple, string, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE id = $1`, t.table)

	var (
		row  entity.BaseSimple
		name string
	)
	err := t.db.QueryRow(ctx, query, id).Scan(&row.ID, &name, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		t.log.Error("Failed to find "+t.name, zap.Error(err), zap.String("id", id.String()))
		return nil, "", fmt.Errorf("find %s %s: %w", t.name, id, err)
	}
	return &row, name, nil
}

func (t *lookupTable) query(ctx context.Context, query string, args ...any) ([]entity.BaseSimple, []string, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		t.log.Error("Failed to list "+t.name, zap.Error(err))
		return nil, nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var (
		bases []entity.BaseSimple
		names []string
	)
	for rows.Next() {
		var (
			row  entity.BaseSimple
			name string
		)
		if err := rows.Scan(&row.ID, &name, &row.CreatedAt); err != nil {
			t.log.Error("Failed to scan "+t.name+" row", zap.Error(err))
			return nil, nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		bases = append(bases, row)
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		t.log.Error("Rows iteration error", zap.Error(err))
		return nil, nil, fmt.Errorf("iterate %s rows: %w", t.name, err)
	}
	return bases, names, nil
}

func (t *lookupTable) update(ctx context.Context, id uuid.UUID, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1`, t.table)

	result, err := t.db.Exec(ctx, query, id, name)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("%s %q already exists: %w", t.name, name, apperrors.ErrConflict)
		}
		t.log.Error("Failed to update "+t.name, zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(t.name)
	}
	return nil
}

func (t *lookupTable) delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table)

	result, err := t.db.Exec(ctx, query, id)
	if err != nil {
		t.log.Error("Failed to delete "+t.name, zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(t.name)
	}
	return nil
}

type categoryRepository struct {
	t lookupTable
}

func NewCategoryRepository(db database.Querier, log *zap.Logger) CategoryRepository {
	return &categoryRepository{t: lookupTable{
		db:    db,
		log:   log.With(zap.String("repository", "category")),
		table: "categories",
		name:  "category",
	}}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.t.create(ctx, &category.BaseSimple, category.Name)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	base, name, err := r.t.findByID(ctx, id)
	if err != nil || base == nil {
		return nil, err
	}
	return &entity.Category{BaseSimple: *base, Name: name}, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	bases, names, err := r.t.query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	categories := make([]*entity.Category, 0, len(bases))
	for i := range bases {
		categories = append(categories, &entity.Category{BaseSimple: bases[i], Name: names[i]})
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.t.update(ctx, category.ID, category.Name)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.t.delete(ctx, id)
}

type tagRepository struct {
	t lookupTable
}

func NewTagRepository(db database.Querier, log *zap.Logger) TagRepository {
	return &tagRepository{t: lookupTable{
		db:    db,
		log:   log.With(zap.String("repository", "tag")),
		table: "tags",
		name:  "tag",
	}}
}

func toTags(bases []entity.BaseSimple, names []string) []*entity.Tag {
	tags := make([]*entity.Tag, 0, len(bases))
	for i := range bases {
		tags = append(tags, &entity.Tag{BaseSimple: bases[i], Name: names[i]})
	}
	return tags
}

func (r *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	return r.t.create(ctx, &tag.BaseSimple, tag.Name)
}

func (r *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	base, name, err := r.t.findByID(ctx, id)
	if err != nil || base == nil {
		return nil, err
	}
	return &entity.Tag{BaseSimple: *base, Name: name}, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Tag, error) {
	if len(ids) == 0 {
		return []*entity.Tag{}, nil
	}
	bases, names, err := r.t.query(ctx, `SELECT id, name, created_at FROM tags WHERE id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, err
	}
	return toTags(bases, names), nil
}

func (r *tagRepository) FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Tag, error) {
	bases, names, err := r.t.query(ctx, `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN campaign_tags ct ON ct.tag_id = t.id
		WHERE ct.campaign_id = $1
		ORDER BY t.name
	`, campaignID)
	if err != nil {
		return nil, err
	}
	return toTags(bases, names), nil
}

func (r *tagRepository) FindAll(ctx context.Context) ([]*entity.Tag, error) {
	bases, names, err := r.t.query(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return toTags(bases, names), nil
}

func (r *tagRepository) Update(ctx context.Context, tag *entity.Tag) error {
	return r.t.update(ctx, tag.ID, tag.Name)
}

func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.t.delete(ctx, id)
}
