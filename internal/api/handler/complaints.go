package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"civicgo/backend/internal/api/middleware"
	"civicgo/backend/internal/complaint"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// CreateComplaint — POST /citizen/complaints
func (h *Handler) CreateComplaint(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req complaint.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: " + err.Error()})
		return
	}

	created, err := h.Complaints.Create(req, user)
	if err != nil {
		if errors.Is(err, complaint.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("ERROR: Failed to create complaint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Complaint created successfully",
		"complaintId": created.ID,
	})
}

// MyComplaints — GET /citizen/complaints
func (h *Handler) MyComplaints(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var q models.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: " + err.Error()})
		return
	}

	page, err := h.Complaints.ListByUser(user, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// ComplaintByID — GET /citizen/complaints/:id
// 404 якщо немає, 403 якщо не власник і не адмін — саме в цьому порядку.
func (h *Handler) ComplaintByID(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.Complaints.Get(id, user)
	if err != nil {
		switch {
		case errors.Is(err, complaint.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		case errors.Is(err, complaint.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, found)
}

// AllComplaints — GET /admin/complaints з опціональними фільтрами
// status, type, city (комбінуються; відсутній фільтр = без обмеження).
func (h *Handler) AllComplaints(c *gin.Context) {
	var q models.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: " + err.Error()})
		return
	}

	var f storage.ComplaintFilter
	if s := c.Query("status"); s != "" {
		status, ok := models.ParseComplaintStatus(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error: unknown status " + s})
			return
		}
		f.Status = status
	}
	if t := c.Query("type"); t != "" {
		ctype, ok := models.ParseComplaintType(t)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error: unknown type " + t})
			return
		}
		f.Type = ctype
	}
	f.City = c.Query("city")

	page, err := h.Complaints.ListAll(q, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateStatusRequest — тіло PUT /admin/complaints/:id/status.
type UpdateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

// UpdateComplaintStatus — PUT /admin/complaints/:id/status
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: " + err.Error()})
		return
	}

	status, valid := models.ParseComplaintStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: unknown status " + req.Status})
		return
	}

	updated, err := h.Complaints.UpdateStatus(id, status, req.AdminNotes, admin)
	if err != nil {
		if errors.Is(err, complaint.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
			return
		}
		log.Printf("ERROR: Failed to update complaint %d status: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Complaint status updated successfully",
		"complaintId": updated.ID,
		"newStatus":   updated.Status,
	})
}

// Heatmap — GET /public/complaints/heatmap
func (h *Handler) Heatmap(c *gin.Context) {
	items, err := h.Complaints.Heatmap()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Stats — GET /public/complaints/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Complaints.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ComplaintTypes — GET /public/complaints/types
func (h *Handler) ComplaintTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllComplaintTypes())
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: invalid id"})
		return 0, false
	}
	return uint(id), true
}
