package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

// The activity log is append-only: there are no update or delete handlers.

func CreateActivityLogHandler(c *gin.Context) {
	var input models.NewActivityLog
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "activityLogHandler.go", "CreateActivityLogHandler", utils.NewValidationError(err.Error()))
		return
	}
	entry, err := models.CreateActivityLog(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "activityLogHandler.go", "CreateActivityLogHandler", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func GetActivityLogHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	entry, err := models.GetActivityLog(c.Request.Context(), id)
	if err != nil {
		respondError(c, "activityLogHandler.go", "GetActivityLogHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func ListActivityLogsHandler(c *gin.Context) {
	accountId, err := queryIntPtr(c, "account_id")
	if err != nil {
		respondError(c, "activityLogHandler.go", "ListActivityLogsHandler", err)
		return
	}
	var action *string
	if raw := c.Query("action"); raw != "" {
		action = &raw
	}
	entries, err := models.GetActivityLogs(c.Request.Context(), accountId, action)
	if err != nil {
		respondError(c, "activityLogHandler.go", "ListActivityLogsHandler", err)
		return
	}
	if entries == nil {
		entries = make([]*models.ActivityLog, 0)
	}
	c.JSON(http.StatusOK, entries)
}
