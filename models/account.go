package models

import (
	"context"
	"html"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Email     string    `gorm:"size:100;not null;unique" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	IsStaff   *bool     `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (result *Account) PrepareGive() {
	result.Password = ""
}

/*
redis keys:
	RefreshToken:$jti        => accountId (expiring allow-list entry)
	RefreshTokens:$email     => set of live jtis per account
*/

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	db := config.GetDB()

	// display name may arrive as name or username
	name := input.Name
	if name == "" {
		name = input.Username
	}
	if input.Email == "" || name == "" || input.Password == "" {
		return nil, utils.NewValidationError("all fields (email, name/username, password) are required")
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email address")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewConflictError("email already exists")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := Account{
		Email:    email,
		Name:     html.EscapeString(strings.TrimSpace(name)),
		Password: string(hashedPassword),
		IsActive: utils.NewTrue(),
		IsStaff:  utils.NewFalse(),
	}

	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, utils.AsApiError(err)
	}
	if err := SaveActivity(db.WithContext(ctx), "account.registered", map[string]interface{}{"account_id": account.ID, "email": account.Email}); err != nil {
		config.LogError(ctx, config.GetLogger(), "account.go", "CreateAccount", "SaveActivity", nil, err)
	}

	account.PrepareGive()
	return &account, nil
}

func Login(ctx context.Context, email string, password string) (*TokenPair, error) {
	db := config.GetDB()

	var account Account
	err := db.WithContext(ctx).Model(&Account{}).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&account).Error
	if err != nil {
		return nil, utils.NewAuthenticationError("invalid credentials")
	}

	err = utils.ComparePassword(account.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, utils.NewAuthenticationError("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if account.IsActive == nil || !*account.IsActive {
		return nil, utils.NewAuthenticationError("account is disabled")
	}

	access, err := utils.JwtGenerate(account.ID, account.Email, account.Name, account.IsStaff != nil && *account.IsStaff)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := utils.JwtGenerateRefresh(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	// allow-list the refresh token so logout/disable can revoke it
	if err := config.AddRedisSet("RefreshTokens:"+account.Email, jti); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("RefreshToken:"+jti, account.Email, utils.RefreshTokenLifespan()); err != nil {
		return nil, err
	}

	if err := SaveActivity(db.WithContext(ctx), "account.logged_in", map[string]interface{}{"account_id": account.ID}); err != nil {
		config.LogError(ctx, config.GetLogger(), "account.go", "Login", "SaveActivity", nil, err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken exchanges a live refresh token for a new access token.
func RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	validated, err := utils.JwtValidate(refreshToken)
	if err != nil || !validated.Valid {
		return "", utils.NewAuthenticationError("invalid refresh token")
	}
	claims, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok || claims.TokenType != utils.TokenTypeRefresh {
		return "", utils.NewAuthenticationError("invalid refresh token")
	}

	// revocation check; skipped when no redis is configured
	if config.GetRedisDB() != nil {
		_, exists, err := config.GetRedisValue("RefreshToken:" + claims.Id)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", utils.NewAuthenticationError("refresh token has been revoked")
		}
	}

	db := config.GetDB()
	var account Account
	if err := db.WithContext(ctx).First(&account, claims.ID).Error; err != nil {
		return "", utils.NewAuthenticationError("account not found")
	}
	if account.IsActive == nil || !*account.IsActive {
		return "", utils.NewAuthenticationError("account is disabled")
	}

	return utils.JwtGenerate(account.ID, account.Email, account.Name, account.IsStaff != nil && *account.IsStaff)
}

// Logout revokes every live refresh token of the current account.
func Logout(ctx context.Context) (bool, error) {
	email, ok := utils.GetEmailFromContext(ctx)
	if !ok || email == "" {
		return false, utils.NewAuthenticationError("account not found")
	}
	jtis, err := config.GetRedisSetMembers("RefreshTokens:" + email)
	if err != nil {
		return false, err
	}
	for _, jti := range jtis {
		if err := config.RemoveRedisKey("RefreshToken:" + jti); err != nil {
			return false, err
		}
	}
	if err := config.RemoveRedisKey("RefreshTokens:" + email); err != nil {
		return false, err
	}
	return true, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {
	db := config.GetDB()
	var result Account
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	result.PrepareGive()
	return &result, nil
}

// DeleteAccount removes a login principal while keeping its history: created
// invoices and activity rows are detached (created_by / account set null), not
// cascade-deleted.
func DeleteAccount(ctx context.Context, id int) (*Account, error) {
	db := config.GetDB()

	var account Account
	if err := db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Model(&Invoice{}).Where("created_by_id = ?", id).Update("created_by_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&ActivityLog{}).Where("account_id = ?", id).Update("account_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&Company{}).Where("account_id = ?", id).Update("account_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&account).Error; err != nil {
		return nil, err
	}
	if err := SaveActivity(tx, "account.deleted", map[string]interface{}{"account_id": id, "email": account.Email}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	account.PrepareGive()
	return &account, nil
}
