package config_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/invoicing_backend/appctx"
	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"github.com/sirupsen/logrus"
)

func newBufferedLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(buf)
	return logger
}

func TestLogError_CarriesCorrelationId(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf)

	ctx := appctx.Set(context.Background(), appctx.ContextKeyCorrelationId, "cid-123")
	config.LogError(ctx, logger, "logrus_test.go", "TestLogError", "unit", nil, errors.New("boom"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["correlation_id"] != "cid-123" {
		t.Errorf("correlation_id = %v, want cid-123", entry["correlation_id"])
	}
	if entry["module"] != "logrus_test.go" || entry["msg"] != "boom" {
		t.Errorf("entry = %v, want module and message preserved", entry)
	}
}

func TestLogError_NoCorrelationId(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf)

	config.LogError(context.Background(), logger, "logrus_test.go", "TestLogError", "unit", 42, errors.New("boom"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, present := entry["correlation_id"]; present {
		t.Error("correlation_id must be omitted when the context has none")
	}
	if entry["data"] != float64(42) {
		t.Errorf("data = %v, want 42", entry["data"])
	}
}
