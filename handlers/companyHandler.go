package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateCompanyHandler(c *gin.Context) {
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "companyHandler.go", "CreateCompanyHandler", utils.NewValidationError(err.Error()))
		return
	}
	company, err := models.CreateCompany(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "companyHandler.go", "CreateCompanyHandler", err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func GetCompanyHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	company, err := models.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, "companyHandler.go", "GetCompanyHandler", err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func ListCompaniesHandler(c *gin.Context) {
	companies, err := models.GetCompanies(c.Request.Context())
	if err != nil {
		respondError(c, "companyHandler.go", "ListCompaniesHandler", err)
		return
	}
	if companies == nil {
		companies = make([]*models.Company, 0)
	}
	c.JSON(http.StatusOK, companies)
}

func UpdateCompanyHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "companyHandler.go", "UpdateCompanyHandler", utils.NewValidationError(err.Error()))
		return
	}
	company, err := models.UpdateCompany(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "companyHandler.go", "UpdateCompanyHandler", err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func DeleteCompanyHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	company, err := models.DeleteCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, "companyHandler.go", "DeleteCompanyHandler", err)
		return
	}
	c.JSON(http.StatusOK, company)
}

const maxLogoSize = 5 << 20 // 5 MiB

// UploadCompanyLogoHandler accepts a multipart "logo" file, stores the
// original and a thumbnail in GCS and saves both URLs on the company.
func UploadCompanyLogoHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := models.GetCompany(ctx, id); err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", utils.NewValidationError("logo file is required"))
		return
	}
	if fileHeader.Size > maxLogoSize {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", utils.NewValidationError("logo must be smaller than 5MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}
	defer file.Close()

	logoData, err := io.ReadAll(file)
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}

	objectName := "logos/" + utils.GenerateUniqueFilename() + path.Ext(fileHeader.Filename)
	logoUrl, err := utils.UploadFileToGCS(ctx, objectName, bytes.NewReader(logoData))
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}

	thumbData, err := utils.MakeLogoThumbnail(logoData)
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", utils.NewValidationError("logo is not a readable image"))
		return
	}
	thumbUrl, err := utils.UploadFileToGCS(ctx, "logos/thumbs/"+utils.GenerateUniqueFilename()+".jpg", bytes.NewReader(thumbData))
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}

	company, err := models.UpdateCompanyLogo(ctx, id, logoUrl, thumbUrl)
	if err != nil {
		respondError(c, "companyHandler.go", "UploadCompanyLogoHandler", err)
		return
	}
	c.JSON(http.StatusOK, company)
}
