package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
)

// check if id exists, returns NotFound ApiError otherwise
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

func ResourceCountWhere[T any](ctx context.Context, query string, args ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where(query, args...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
