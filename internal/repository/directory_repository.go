package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

// DirectoryRepository answers existence questions against the catalog and
// user tables owned by the catalog and account services.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) Exists(ctx context.Context, kind model.DirectoryKind, id uuid.UUID) (bool, error) {
	var query string
	args := []interface{}{id}
	switch kind {
	case model.DirectoryCatalogItem:
		query = `SELECT EXISTS (SELECT 1 FROM catalog_items WHERE id = ?)`
	case model.DirectoryProvider:
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = ? AND role = ?)`
		args = append(args, model.RoleProvider)
	default:
		return false, fmt.Errorf("unknown directory kind %q", kind)
	}

	var exists bool
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&exists).Error; err != nil {
		return false, err
	}
	return exists, nil
}
