package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
)

type BankDetail struct {
	ID            int       `gorm:"primary_key" json:"id"`
	CompanyId     int       `gorm:"index;not null" json:"company_id" binding:"required"`
	Company       *Company  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AccountName   string    `gorm:"size:100;not null" json:"account_name" binding:"required"`
	AccountNumber string    `gorm:"size:30;not null" json:"account_number" binding:"required"`
	IfscCode      string    `gorm:"size:20" json:"ifsc_code"`
	BankName      string    `gorm:"size:100" json:"bank_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBankDetail struct {
	CompanyId     int    `json:"company_id" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	IfscCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
}

func CreateBankDetail(ctx context.Context, input *NewBankDetail) (*BankDetail, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
		return nil, utils.NewValidationError("company not found")
	}

	bankDetail := BankDetail{
		CompanyId:     input.CompanyId,
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		IfscCode:      input.IfscCode,
		BankName:      input.BankName,
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Create(&bankDetail).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "bank_detail.created", map[string]interface{}{"bank_detail_id": bankDetail.ID, "company_id": bankDetail.CompanyId}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &bankDetail, nil
}

func GetBankDetail(ctx context.Context, id int) (*BankDetail, error) {
	db := config.GetDB()
	var result BankDetail
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetBankDetails(ctx context.Context, companyId *int) ([]*BankDetail, error) {
	db := config.GetDB()
	var results []*BankDetail

	dbCtx := db.WithContext(ctx)
	if companyId != nil && *companyId > 0 {
		dbCtx = dbCtx.Where("company_id = ?", *companyId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateBankDetail(ctx context.Context, id int, input *NewBankDetail) (*BankDetail, error) {
	db := config.GetDB()

	var bankDetail BankDetail
	if err := db.WithContext(ctx).First(&bankDetail, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if input.CompanyId != bankDetail.CompanyId {
		if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
			return nil, utils.NewValidationError("company not found")
		}
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	updates := BankDetail{
		CompanyId:     input.CompanyId,
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		IfscCode:      input.IfscCode,
		BankName:      input.BankName,
	}
	if err := tx.Model(&bankDetail).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "bank_detail.updated", map[string]interface{}{"bank_detail_id": bankDetail.ID}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &bankDetail, nil
}

func DeleteBankDetail(ctx context.Context, id int) (*BankDetail, error) {
	db := config.GetDB()

	var bankDetail BankDetail
	if err := db.WithContext(ctx).First(&bankDetail, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Delete(&bankDetail).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "bank_detail.deleted", map[string]interface{}{"bank_detail_id": id}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &bankDetail, nil
}
