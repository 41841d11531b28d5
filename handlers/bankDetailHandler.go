package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateBankDetailHandler(c *gin.Context) {
	var input models.NewBankDetail
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "bankDetailHandler.go", "CreateBankDetailHandler", utils.NewValidationError(err.Error()))
		return
	}
	bankDetail, err := models.CreateBankDetail(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "bankDetailHandler.go", "CreateBankDetailHandler", err)
		return
	}
	c.JSON(http.StatusCreated, bankDetail)
}

func GetBankDetailHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	bankDetail, err := models.GetBankDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, "bankDetailHandler.go", "GetBankDetailHandler", err)
		return
	}
	c.JSON(http.StatusOK, bankDetail)
}

func ListBankDetailsHandler(c *gin.Context) {
	companyId, err := queryIntPtr(c, "company_id")
	if err != nil {
		respondError(c, "bankDetailHandler.go", "ListBankDetailsHandler", err)
		return
	}
	bankDetails, err := models.GetBankDetails(c.Request.Context(), companyId)
	if err != nil {
		respondError(c, "bankDetailHandler.go", "ListBankDetailsHandler", err)
		return
	}
	if bankDetails == nil {
		bankDetails = make([]*models.BankDetail, 0)
	}
	c.JSON(http.StatusOK, bankDetails)
}

func UpdateBankDetailHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewBankDetail
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "bankDetailHandler.go", "UpdateBankDetailHandler", utils.NewValidationError(err.Error()))
		return
	}
	bankDetail, err := models.UpdateBankDetail(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "bankDetailHandler.go", "UpdateBankDetailHandler", err)
		return
	}
	c.JSON(http.StatusOK, bankDetail)
}

func DeleteBankDetailHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	bankDetail, err := models.DeleteBankDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, "bankDetailHandler.go", "DeleteBankDetailHandler", err)
		return
	}
	c.JSON(http.StatusOK, bankDetail)
}
