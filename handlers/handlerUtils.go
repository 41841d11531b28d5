package handlers

import (
	"strconv"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps any error onto the wire shape
//
//	{"error": {"kind": "...", "message": "..."}}
//
// using the error's classified kind for the HTTP status. Internal errors are
// logged with their original message but surfaced opaquely.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	apiErr := utils.AsApiError(err)
	if apiErr.Kind == utils.ErrorKindInternal {
		config.LogError(c.Request.Context(), config.GetLogger(), moduleName, funcName, c.Request.URL.Path, nil, err)
		apiErr = &utils.ApiError{Kind: utils.ErrorKindInternal, Message: "internal server error"}
	}
	c.JSON(utils.HTTPStatus(err), gin.H{"error": apiErr})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, "handlerUtils.go", "pathId", utils.NewValidationError("invalid id"))
		return 0, false
	}
	return id, true
}

// queryIntPtr reads an optional positive integer query parameter.
func queryIntPtr(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, utils.NewValidationError("invalid " + name)
	}
	return &v, nil
}
