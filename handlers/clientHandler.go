package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/invoicing_backend/models"
	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateClientHandler(c *gin.Context) {
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "clientHandler.go", "CreateClientHandler", utils.NewValidationError(err.Error()))
		return
	}
	client, err := models.CreateClient(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "clientHandler.go", "CreateClientHandler", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func GetClientHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	client, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "clientHandler.go", "GetClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func ListClientsHandler(c *gin.Context) {
	clients, err := models.GetClients(c.Request.Context())
	if err != nil {
		respondError(c, "clientHandler.go", "ListClientsHandler", err)
		return
	}
	if clients == nil {
		clients = make([]*models.Client, 0)
	}
	c.JSON(http.StatusOK, clients)
}

func UpdateClientHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "clientHandler.go", "UpdateClientHandler", utils.NewValidationError(err.Error()))
		return
	}
	client, err := models.UpdateClient(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "clientHandler.go", "UpdateClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func DeleteClientHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	client, err := models.DeleteClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "clientHandler.go", "DeleteClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}
