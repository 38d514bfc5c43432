package controllers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roadcall/internal/apperr"
	"roadcall/internal/middleware"
	"roadcall/internal/storage"
)

// maxUploadBytes caps evidence/vehicle photo uploads.
const maxUploadBytes = 10 << 20

// UploadController stores a blob and answers with its URL. Clients attach
// the returned URL to feedback photos, vehicle photos or hub posts.
type UploadController struct {
	Blobs storage.Store
}

func (uc *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	path := "media/" + middleware.AccountID(c) + "/" + primitive.NewObjectID().Hex() + filepath.Ext(header.Filename)
	url, err := uc.Blobs.Upload(c.Request.Context(), path, data)
	if err != nil {
		fail(c, apperr.Storage("upload", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
