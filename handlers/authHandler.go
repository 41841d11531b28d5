package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

func RegisterHandler(c *gin.Context) {
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "authHandler.go", "RegisterHandler", utils.NewValidationError(err.Error()))
		return
	}
	account, err := models.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "authHandler.go", "RegisterHandler", err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func LoginHandler(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "authHandler.go", "LoginHandler", utils.NewValidationError(err.Error()))
		return
	}
	tokens, err := models.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, "authHandler.go", "LoginHandler", err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func RefreshTokenHandler(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "authHandler.go", "RefreshTokenHandler", utils.NewValidationError(err.Error()))
		return
	}
	access, err := models.RefreshAccessToken(c.Request.Context(), input.Refresh)
	if err != nil {
		respondError(c, "authHandler.go", "RefreshTokenHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func LogoutHandler(c *gin.Context) {
	ok, err := models.Logout(c.Request.Context())
	if err != nil {
		respondError(c, "authHandler.go", "LogoutHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// MeHandler returns the authenticated account.
func MeHandler(c *gin.Context) {
	accountId, _ := utils.GetAccountIdFromContext(c.Request.Context())
	account, err := models.GetAccount(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, "authHandler.go", "MeHandler", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeleteAccountHandler removes the authenticated account; history rows are
// detached rather than deleted.
func DeleteAccountHandler(c *gin.Context) {
	accountId, _ := utils.GetAccountIdFromContext(c.Request.Context())
	account, err := models.DeleteAccount(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, "authHandler.go", "DeleteAccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, account)
}
