package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"github.com/bsm/redislock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("invoicing-backend")

// obtainRedisInvoiceLock is a best-effort cross-instance guard. The MySQL
// advisory lock is the real serializer; when Redis isn't configured we
// proceed without it.
func obtainRedisInvoiceLock(ctx context.Context, invoiceId int) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	lockKey := fmt.Sprintf("invoiceLock:%d", invoiceId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		return nil, errors.New("invoice is being modified by another request")
	}
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "invoiceWorkflow.go", "obtainRedisInvoiceLock", "Obtain", invoiceId, err)
		return nil, nil
	}
	return lock, nil
}

// WithInvoiceLock runs fn inside one transaction holding the per-invoice
// lock, then recomputes the invoice money fields before commit. All item,
// payment, header and status mutations of an existing invoice go through
// here so totals can never drift from the rows they summarize.
func WithInvoiceLock(ctx context.Context, invoiceId int, fn func(tx *gorm.DB) error) (*models.Invoice, error) {
	ctx, span := tracer.Start(ctx, "invoice.mutate")
	defer span.End()
	span.SetAttributes(attribute.Int("invoice.id", invoiceId))

	redisLock, err := obtainRedisInvoiceLock(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if redisLock != nil {
		defer func() { _ = redisLock.Release(ctx) }()
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := AcquireInvoiceLock(tx, invoiceId); err != nil {
		return nil, err
	}
	defer ReleaseInvoiceLock(tx, invoiceId)

	if err := fn(tx); err != nil {
		return nil, err
	}

	invoice, err := models.RecomputeInvoiceTotalsTx(tx, invoiceId)
	if err != nil {
		return nil, err
	}
	span.AddEvent("totals recomputed", trace.WithAttributes(
		attribute.String("invoice.total", invoice.Total.String()),
		attribute.String("invoice.balance_due", invoice.BalanceDue.String()),
	))

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return invoice, nil
}
