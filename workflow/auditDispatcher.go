package workflow

import (
	"context"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditDispatcher streams committed activity log rows to Pub/Sub. Rows are the
// outbox: they commit with the write they describe and DispatchedAt marks
// delivery, so an event is never published for a rolled-back change.
type AuditDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	DispatcherID string

	BatchSize    int
	PollInterval time.Duration
}

func NewAuditDispatcher(db *gorm.DB, logger *logrus.Logger) *AuditDispatcher {
	return &AuditDispatcher{
		DB:           db,
		Logger:       logger,
		DispatcherID: uuid.NewString(),
		BatchSize:    50,
		PollInterval: 2 * time.Second,
	}
}

// Enabled reports whether audit publishing is configured at all.
func (d *AuditDispatcher) Enabled() bool {
	return os.Getenv("AUDIT_TOPIC_ID") != "" && os.Getenv("PUBSUB_PROJECT_ID") != ""
}

func (d *AuditDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !d.Enabled() {
		d.Logger.Info("audit dispatcher disabled (AUDIT_TOPIC_ID not set)")
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *AuditDispatcher) dispatchOnce(ctx context.Context) {
	db := d.DB
	if db == nil {
		return
	}

	var pending []models.ActivityLog
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("dispatched_at IS NULL").
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		for i := range pending {
			entry := pending[i]
			_, err := config.PublishAuditEvent(ctx, config.AuditEvent{
				Id:        entry.ID,
				AccountId: entry.AccountId,
				Action:    entry.Action,
				Metadata:  entry.Metadata,
				CreatedAt: entry.CreatedAt,
			})
			if err != nil {
				// Leave the row pending; the next poll retries from here.
				config.LogError(ctx, d.Logger, "auditDispatcher.go", "dispatchOnce", "PublishAuditEvent", entry.ID, err)
				return err
			}
			now := time.Now().UTC()
			if err := tx.Model(&models.ActivityLog{}).
				Where("id = ?", entry.ID).
				Update("dispatched_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(ctx, d.Logger, "auditDispatcher.go", "dispatchOnce", "transaction", d.DispatcherID, err)
	}
}
