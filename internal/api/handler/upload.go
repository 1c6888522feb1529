package handler

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Upload — POST /upload. Зберігає файл під унікальним ім'ям
// (uuid + оригінальне розширення) та повертає публічний URL,
// який потім передається у imageUrls при створенні скарги.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: file is required"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		log.Printf("ERROR: Failed to create upload dir %s: %v", h.UploadDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.UploadDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("ERROR: Failed to save uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  "/uploads/" + name,
		"name": file.Filename,
		"size": file.Size,
	})
}
