package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
)

// Company is the issuing side of an invoice: one profile per account.
// AccountId goes null when the owning account is deleted so issued invoices
// keep their company reference.
type Company struct {
	ID           int          `gorm:"primary_key" json:"id"`
	AccountId    *int         `gorm:"uniqueIndex;default:null" json:"account_id"`
	Account      *Account     `json:"-"`
	Name         string       `gorm:"size:255;not null" json:"name" binding:"required"`
	Address      string       `gorm:"type:text" json:"address"`
	Gstin        string       `gorm:"size:20" json:"gstin"`
	Email        string       `gorm:"size:100" json:"email"`
	Phone        string       `gorm:"size:20" json:"phone"`
	LogoUrl      string       `gorm:"size:255" json:"logo_url"`
	LogoThumbUrl string       `gorm:"size:255" json:"logo_thumb_url"`
	BankDetails  []BankDetail `gorm:"foreignKey:CompanyId" json:"bank_details,omitempty"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Gstin   string `json:"gstin"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (input *NewCompany) validate() error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email address")
	}
	if err := utils.ValidatePhoneNumber(input.Phone, "IN"); err != nil {
		return utils.NewValidationError(err.Error())
	}
	return nil
}

func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {
	db := config.GetDB()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == 0 {
		return nil, utils.NewAuthenticationError("account is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Company{}).Where("account_id = ?", accountId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewConflictError("account already has a company profile")
	}

	company := Company{
		AccountId: &accountId,
		Name:      input.Name,
		Address:   input.Address,
		Gstin:     input.Gstin,
		Email:     input.Email,
		Phone:     input.Phone,
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Create(&company).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "company.created", map[string]interface{}{"company_id": company.ID, "name": company.Name}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func GetCompany(ctx context.Context, id int) (*Company, error) {
	db := config.GetDB()
	var result Company
	if err := db.WithContext(ctx).Preload("BankDetails").First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetCompanies(ctx context.Context) ([]*Company, error) {
	db := config.GetDB()
	var results []*Company
	if err := db.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateCompany(ctx context.Context, id int, input *NewCompany) (*Company, error) {
	db := config.GetDB()

	var company Company
	if err := db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	updates := Company{
		Name:    input.Name,
		Address: input.Address,
		Gstin:   input.Gstin,
		Email:   input.Email,
		Phone:   input.Phone,
	}
	if err := tx.Model(&company).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "company.updated", map[string]interface{}{"company_id": company.ID}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateCompanyLogo stores the uploaded logo and its thumbnail URL.
func UpdateCompanyLogo(ctx context.Context, id int, logoUrl string, thumbUrl string) (*Company, error) {
	db := config.GetDB()

	var company Company
	if err := db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	updates := map[string]interface{}{
		"logo_url":       logoUrl,
		"logo_thumb_url": thumbUrl,
	}
	if err := db.WithContext(ctx).Model(&company).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// DeleteCompany cascades: bank details and every invoice issued by the
// company (with items and payments) go with it.
func DeleteCompany(ctx context.Context, id int) (*Company, error) {
	db := config.GetDB()

	var company Company
	if err := db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	var invoiceIds []int
	if err := tx.Model(&Invoice{}).Where("company_id = ?", id).Pluck("id", &invoiceIds).Error; err != nil {
		return nil, err
	}
	if len(invoiceIds) > 0 {
		if err := tx.Delete(&InvoiceItem{}, "invoice_id IN ?", invoiceIds).Error; err != nil {
			return nil, err
		}
		if err := tx.Delete(&Payment{}, "invoice_id IN ?", invoiceIds).Error; err != nil {
			return nil, err
		}
		if err := tx.Delete(&Invoice{}, "id IN ?", invoiceIds).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Delete(&BankDetail{}, "company_id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&company).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "company.deleted", map[string]interface{}{"company_id": id, "invoices_removed": len(invoiceIds)}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &company, nil
}
