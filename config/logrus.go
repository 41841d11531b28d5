package config

import (
	"context"
	"os"

	"bitbucket.org/mmdatafocus/invoicing_backend/appctx"
	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// LogError emits one structured error entry. The request correlation id is
// picked up from ctx when present so log lines join up across a request.
func LogError(ctx context.Context, logger *logrus.Logger, moduleName string, funcName string, logContext string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  logContext,
	}
	if ctx != nil {
		if cid, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok && cid != "" {
			fields["correlation_id"] = cid
		}
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
