package models

import "strings"

// PaginationQuery — параметри сторінкування та сортування зі строки запиту.
// Нумерація сторінок нульова, як у вихідному API.
type PaginationQuery struct {
	Page    int    `form:"page"`
	Size    int    `form:"size"`
	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
}

// дозволені колонки сортування для скарг; захист від довільного SQL
var complaintSortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"type":       "type",
	"status":     "status",
	"city":       "city",
	"state":      "state",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"resolvedAt": "resolved_at",
}

// Normalize підставляє дефолти (page=0, size=10, createdAt desc)
// та відкидає невідомі поля сортування.
func (q PaginationQuery) Normalize() PaginationQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Size > 100 {
		q.Size = 100
	}
	if _, ok := complaintSortColumns[q.SortBy]; !ok {
		q.SortBy = "createdAt"
	}
	if !strings.EqualFold(q.SortDir, "asc") {
		q.SortDir = "desc"
	}
	return q
}

// OrderClause повертає безпечний ORDER BY для GORM.
func (q PaginationQuery) OrderClause() string {
	return complaintSortColumns[q.SortBy] + " " + q.SortDir
}

// Offset повертає зсув для поточної сторінки.
func (q PaginationQuery) Offset() int {
	return q.Page * q.Size
}

// PagedComplaints — сторінка скарг з метаданими.
type PagedComplaints struct {
	Items []Complaint `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}
