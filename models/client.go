package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
)

// Client is the company being billed.
type Client struct {
	ID            int    `gorm:"primary_key" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name" binding:"required"`
	ContactPerson string `gorm:"size:255" json:"contact_person"`
	Email         string `gorm:"size:100" json:"email"`
	Phone         string `gorm:"size:20" json:"phone"`

	BillingAddress string `gorm:"type:text" json:"billing_address"`
	BillingCity    string `gorm:"size:100" json:"billing_city"`
	BillingState   string `gorm:"size:100" json:"billing_state"`
	BillingPincode string `gorm:"size:10" json:"billing_pincode"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100" json:"shipping_city"`
	ShippingState   string `gorm:"size:100" json:"shipping_state"`
	ShippingPincode string `gorm:"size:10" json:"shipping_pincode"`

	Gstin   string `gorm:"size:20" json:"gstin"`
	Website string `gorm:"size:255" json:"website"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`

	BillingAddress string `json:"billing_address"`
	BillingCity    string `json:"billing_city"`
	BillingState   string `json:"billing_state"`
	BillingPincode string `json:"billing_pincode"`

	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingPincode string `json:"shipping_pincode"`

	Gstin   string `json:"gstin"`
	Website string `json:"website"`
}

func (input *NewClient) validate() error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email address")
	}
	if err := utils.ValidatePhoneNumber(input.Phone, "IN"); err != nil {
		return utils.NewValidationError(err.Error())
	}
	return nil
}

func (input *NewClient) toClient() Client {
	return Client{
		Name:            input.Name,
		ContactPerson:   input.ContactPerson,
		Email:           input.Email,
		Phone:           input.Phone,
		BillingAddress:  input.BillingAddress,
		BillingCity:     input.BillingCity,
		BillingState:    input.BillingState,
		BillingPincode:  input.BillingPincode,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingPincode: input.ShippingPincode,
		Gstin:           input.Gstin,
		Website:         input.Website,
	}
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}
	client := input.toClient()

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Create(&client).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(tx, "client.created", map[string]interface{}{"client_id": client.ID, "name": client.Name}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	db := config.GetDB()
	var result Client
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetClients(ctx context.Context) ([]*Client, error) {
	db := config.GetDB()
	var results []*Client
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	db := config.GetDB()

	var client Client
	if err := db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	updates := input.toClient()
	if err := tx.Model(&client).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "client.updated", map[string]interface{}{"client_id": client.ID}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient cascades to the client's invoices, their items and payments.
// Invoices keep their own address snapshot, so nothing else references the
// client row.
func DeleteClient(ctx context.Context, id int) (*Client, error) {
	db := config.GetDB()

	var client Client
	if err := db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	var invoiceIds []int
	if err := tx.Model(&Invoice{}).Where("client_id = ?", id).Pluck("id", &invoiceIds).Error; err != nil {
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
	if err := tx.Delete(&client).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "client.deleted", map[string]interface{}{"client_id": id, "invoices_removed": len(invoiceIds)}); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &client, nil
}
