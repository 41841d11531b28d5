// Command seed-admin creates the first staff account. Intended as a one-off
// job against a fresh database.
//
//	ADMIN_EMAIL=ops@example.com ADMIN_NAME="Ops" ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"os"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := config.GetLogger()

	email := os.Getenv("ADMIN_EMAIL")
	name := os.Getenv("ADMIN_NAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Panic("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if name == "" {
		name = "Administrator"
	}

	config.ConnectDatabaseWithRetry()
	if err := models.MigrateTable(); err != nil {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Panic(err.Error())
	}

	ctx := context.Background()
	account, err := models.CreateAccount(ctx, &models.NewAccount{
		Email:    email,
		Name:     name,
		Password: password,
	})
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "seed-admin"}).Panic(err.Error())
	}

	db := config.GetDB()
	if err := db.Model(&models.Account{}).Where("id = ?", account.ID).Update("is_staff", true).Error; err != nil {
		logger.WithFields(logrus.Fields{"field": "seed-admin"}).Panic(err.Error())
	}

	logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"email":      account.Email,
	}).Info("staff account created")
}
