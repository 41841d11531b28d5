package models

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"gorm.io/gorm"
)

// ActivityLog is append-only: rows are created once and never mutated.
// DispatchedAt is outbox bookkeeping for the audit publisher, not part of the
// logical record.
type ActivityLog struct {
	ID           int        `gorm:"primary_key" json:"id"`
	AccountId    *int       `gorm:"index;default:null" json:"account_id"`
	Account      *Account   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Action       string     `gorm:"size:255;not null" json:"action" binding:"required"`
	Metadata     string     `gorm:"type:text" json:"metadata"`
	DispatchedAt *time.Time `gorm:"index;default:null" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type NewActivityLog struct {
	Action   string                 `json:"action" binding:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SaveActivity appends an audit row inside the caller's transaction so the
// log commits or rolls back together with the write it describes. The acting
// account comes from the transaction context; anonymous actions stay null.
func SaveActivity(tx *gorm.DB, action string, metadata interface{}) error {
	var accountId *int
	if ctx := tx.Statement.Context; ctx != nil {
		if id, ok := utils.GetAccountIdFromContext(ctx); ok && id > 0 {
			accountId = &id
		}
	}

	var metadataJSON string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		metadataJSON = string(b)
	}

	entry := ActivityLog{
		AccountId: accountId,
		Action:    action,
		Metadata:  metadataJSON,
	}
	return tx.Create(&entry).Error
}

func CreateActivityLog(ctx context.Context, input *NewActivityLog) (*ActivityLog, error) {
	db := config.GetDB()

	var accountId *int
	if id, ok := utils.GetAccountIdFromContext(ctx); ok && id > 0 {
		accountId = &id
	}

	var metadataJSON string
	if input.Metadata != nil {
		b, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, utils.NewValidationError("metadata must be a JSON object")
		}
		metadataJSON = string(b)
	}

	entry := ActivityLog{
		AccountId: accountId,
		Action:    input.Action,
		Metadata:  metadataJSON,
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func GetActivityLog(ctx context.Context, id int) (*ActivityLog, error) {
	db := config.GetDB()
	var result ActivityLog
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetActivityLogs(ctx context.Context, accountId *int, action *string) ([]*ActivityLog, error) {
	db := config.GetDB()
	var results []*ActivityLog

	dbCtx := db.WithContext(ctx)
	if accountId != nil && *accountId > 0 {
		dbCtx = dbCtx.Where("account_id = ?", *accountId)
	}
	if action != nil && *action != "" {
		dbCtx = dbCtx.Where("action = ?", *action)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
