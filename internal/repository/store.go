package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQuery is the caller-supplied shape of a list request: equality filters
// over whitelisted columns plus ordering and pagination bounds.
type ListQuery struct {
	Filters map[string]any
	Sort    string
	Limit   int
	Offset  int
}

// Store is the uniform per-table capability the CRUD engine operates through.
// Records cross this boundary as column-keyed maps so one implementation
// serves every registered entity kind.
type Store interface {
	Find(ctx context.Context, table string, q ListQuery) ([]map[string]any, error)
	FindByID(ctx context.Context, table, id string) (map[string]any, error)
	Create(ctx context.Context, table string, record map[string]any) (map[string]any, error)
	UpdateByID(ctx context.Context, table, id string, patch map[string]any) (int64, error)
	DeleteByID(ctx context.Context, table, id string) (int64, error)
	Truncate(ctx context.Context, table string) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Find(ctx context.Context, table string, q ListQuery) ([]map[string]any, error) {
	tx := GetDB(ctx, s.db).Table(table)
	if len(q.Filters) > 0 {
		tx = tx.Where(q.Filters)
	}
	if q.Sort != "" {
		tx = tx.Order(q.Sort)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns (nil, nil) when the record does not exist; absence is an
// expected outcome, not a storage failure.
func (s *gormStore) FindByID(ctx context.Context, table, id string) (map[string]any, error) {
	row := map[string]any{}
	err := GetDB(ctx, s.db).Table(table).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *gormStore) Create(ctx context.Context, table string, record map[string]any) (map[string]any, error) {
	// Map-based inserts bypass GORM model callbacks, so key and timestamps are
	// assigned here.
	if _, ok := record["id"]; !ok {
		record["id"] = uuid.NewString()
	}
	now := time.Now().UTC()
	record["created_at"] = now
	record["updated_at"] = now

	if err := GetDB(ctx, s.db).Table(table).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *gormStore) UpdateByID(ctx context.Context, table, id string, patch map[string]any) (int64, error) {
	patch["updated_at"] = time.Now().UTC()
	res := GetDB(ctx, s.db).Table(table).Where("id = ?", id).Updates(patch)
	return res.RowsAffected, res.Error
}

func (s *gormStore) DeleteByID(ctx context.Context, table, id string) (int64, error) {
	res := GetDB(ctx, s.db).Exec(`DELETE FROM "`+table+`" WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

// Truncate irreversibly destroys every row of the table, cascading to
// dependents on postgres. The sqlite branch exists for the in-memory test
// databases, which have no TRUNCATE statement.
func (s *gormStore) Truncate(ctx context.Context, table string) error {
	db := GetDB(ctx, s.db)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE "` + table + `" CASCADE`).Error
	}
	return db.Exec(`DELETE FROM "` + table + `"`).Error
}
