// Package complaint provides the business logic of the complaint lifecycle:
// creation, listing, the status state machine with its audit trail, and the
// best-effort notification side effects.
package complaint

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"
)

// Сентинельні помилки; handlers мапують їх на HTTP-статуси.
var (
	ErrNotFound   = errors.New("complaint not found")
	ErrForbidden  = errors.New("access denied")
	ErrValidation = errors.New("validation failed")
)

// Notifier — контракт best-effort сповіщень. Реалізація сама ковтає
// та логує власні помилки; сервіс ніколи їх не бачить.
type Notifier interface {
	ComplaintSubmitted(c *models.Complaint)
	StatusChanged(c *models.Complaint, oldStatus, newStatus models.ComplaintStatus)
	ResolutionConfirmationRequested(c *models.Complaint)
}

// CreateRequest — вхідні дані нової скарги. Статус із входу ігнорується:
// нова скарга завжди PENDING.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	ZipCode     string   `json:"zipCode"`
	ImageURLs   []string `json:"imageUrls"`
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, n Notifier) *Service {
	return &Service{Storage: s, Notifier: n}
}

// Create валідує вхід, збирає агрегат (скарга + зображення + початковий
// запис аудиту PENDING→PENDING), зберігає його однією транзакцією та
// запускає best-effort сповіщення.
func (s *Service) Create(req CreateRequest, submitter *models.User) (*models.Complaint, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	ctype, ok := models.ParseComplaintType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown complaint type %q", ErrValidation, req.Type)
	}

	submitterID := submitter.ID
	c := &models.Complaint{
		Title:       req.Title,
		Description: req.Description,
		Type:        ctype,
		Status:      models.StatusPending, // завжди, незалежно від входу
		UserID:      submitterID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Updates: []models.ComplaintUpdate{{
			Message:        "Complaint submitted",
			PreviousStatus: models.StatusPending,
			NewStatus:      models.StatusPending,
			UserID:         &submitterID,
		}},
		Images: buildImages(req.ImageURLs),
	}

	if err := s.Storage.CreateComplaint(c); err != nil {
		return nil, err
	}
	c.User = *submitter

	s.Notifier.ComplaintSubmitted(c)
	s.publishEvent(models.EventComplaintCreated, c)

	return c, nil
}

// buildImages перетворює список завантажених URL на записи зображень.
// Порожні рядки пропускаються; ім'я — останній сегмент шляху URL,
// із запасним ім'ям на основі мітки часу, якщо сегмент порожній.
func buildImages(urls []string) []models.ComplaintImage {
	var images []models.ComplaintImage
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		name := u[strings.LastIndex(u, "/")+1:]
		if name == "" {
			name = fmt.Sprintf("image_%d", time.Now().UnixMilli())
		}
		images = append(images, models.ComplaintImage{URL: u, Name: name})
	}
	return images
}

// Get повертає скаргу за id з перевіркою власності: спершу not-found,
// потім власник-або-адмін.
func (s *Service) Get(id uint, caller *models.User) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return c, nil
}

// ListByUser повертає сторінку скарг користувача.
func (s *Service) ListByUser(user *models.User, q models.PaginationQuery) (*models.PagedComplaints, error) {
	return s.Storage.ListComplaintsByUser(user.ID, q)
}

// ListAll повертає сторінку всіх скарг з опціональними фільтрами (адмін).
func (s *Service) ListAll(q models.PaginationQuery, f storage.ComplaintFilter) (*models.PagedComplaints, error) {
	return s.Storage.ListComplaints(q, f)
}

// UpdateStatus застосовує перехід статусу. Будь-яка пара (old, new) від
// адміністратора приймається, включно з рухом назад — адмін може
// виправити помилку. Запис статусу та запис аудиту атомарні.
// Сповіщення лише коли old != new; при new == RESOLVED додатково
// надсилається запит підтвердження вирішення.
func (s *Service) UpdateStatus(id uint, newStatus models.ComplaintStatus, notes string, admin *models.User) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	previousStatus := c.Status
	c.Status = newStatus
	if notes != "" {
		c.AdminNotes = notes
	}

	adminID := admin.ID
	upd := &models.ComplaintUpdate{
		Message:        fmt.Sprintf("Status updated from %s to %s", previousStatus, newStatus),
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		UserID:         &adminID,
	}

	if err := s.Storage.SaveComplaintWithUpdate(c, upd); err != nil {
		return nil, err
	}

	if previousStatus != newStatus {
		s.Notifier.StatusChanged(c, previousStatus, newStatus)
		if newStatus == models.StatusResolved {
			s.Notifier.ResolutionConfirmationRequested(c)
		}
		s.publishEvent(models.EventStatusChanged, c)
	}

	return c, nil
}

// Stats — публічна статистика за статусами.
type Stats struct {
	TotalComplaints      int64 `json:"totalComplaints"`
	PendingComplaints    int64 `json:"pendingComplaints"`
	InProgressComplaints int64 `json:"inProgressComplaints"`
	ResolvedComplaints   int64 `json:"resolvedComplaints"`
}

// GetStats рахує скарги за трьома відомими статусами. Total — сума цих
// трьох лічильників, а не окремий COUNT(*): скарга в несподіваному
// статусі тихо випаде із суми. Відома особливість вихідної системи,
// збережена свідомо.
func (s *Service) GetStats() (*Stats, error) {
	pending, err := s.Storage.CountComplaintsByStatus(models.StatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.Storage.CountComplaintsByStatus(models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	resolved, err := s.Storage.CountComplaintsByStatus(models.StatusResolved)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalComplaints:      pending + inProgress + resolved,
		PendingComplaints:    pending,
		InProgressComplaints: inProgress,
		ResolvedComplaints:   resolved,
	}, nil
}

// Heatmap повертає всі невирішені скарги, що мають обидві координати.
func (s *Service) Heatmap() ([]models.Complaint, error) {
	return s.Storage.UnresolvedComplaintsWithLocation()
}

// Delete видаляє скаргу з явним каскадом (операторський CLI).
func (s *Service) Delete(id uint) error {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	return s.Storage.DeleteComplaint(id)
}

func (s *Service) publishEvent(eventType string, c *models.Complaint) {
	ev := models.ComplaintEvent{
		Type:        eventType,
		ComplaintID: c.ID,
		Status:      c.Status,
		Title:       c.Title,
		City:        c.City,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		At:          time.Now(),
	}
	if err := s.Storage.PublishComplaintEvent(ev); err != nil {
		// Жива стрічка best-effort: втрата події допустима
		log.Printf("ERROR: Failed to publish complaint event %s for #%d: %v", eventType, c.ID, err)
	}
}
