package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"civicgo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Канал Redis Pub/Sub для подій скарг (жива стрічка адмін-дашборду).
const ComplaintEventsChannel = "complaints:events"

// ComplaintFilter — опціональні фільтри адмінського списку.
// Порожнє значення = без обмеження; фільтри комбінуються.
type ComplaintFilter struct {
	Status models.ComplaintStatus
	Type   models.ComplaintType
	City   string
}

type Storage interface {
	// Користувачі
	SaveUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UserExistsByEmail(email string) (bool, error)
	UserExistsByPhone(phone string) (bool, error)

	// Скарги
	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	ListComplaintsByUser(userID uint, q models.PaginationQuery) (*models.PagedComplaints, error)
	ListComplaints(q models.PaginationQuery, f ComplaintFilter) (*models.PagedComplaints, error)
	SaveComplaintWithUpdate(c *models.Complaint, upd *models.ComplaintUpdate) error
	CountComplaintsByStatus(status models.ComplaintStatus) (int64, error)
	UnresolvedComplaintsWithLocation() ([]models.Complaint, error)
	DeleteComplaint(id uint) error

	// Події та rate limiting (Redis)
	PublishComplaintEvent(ev models.ComplaintEvent) error
	IncrementRequestCount(key string, window time.Duration) (int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Не знайдено — без помилки
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UserExistsByEmail(email string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *Service) UserExistsByPhone(phone string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).Where("phone_number = ?", phone).Count(&count).Error
	return count > 0, err
}

// CreateComplaint зберігає агрегат цілком: скаргу, її зображення та
// початковий запис аудиту в одній транзакції.
func (s *Service) CreateComplaint(c *models.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to create complaint %q: %v", c.Title, err)
		return err
	}
	return nil
}

// GetComplaintByID повертає скаргу разом із заявником, зображеннями та
// історією. Заявник потрібен далі для адресації сповіщень.
// Якщо запис не знайдено, повертає nil без помилки.
func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Preload("User").Preload("Images").Preload("Updates").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplaintsByUser повертає сторінку скарг одного користувача.
func (s *Service) ListComplaintsByUser(userID uint, q models.PaginationQuery) (*models.PagedComplaints, error) {
	q = q.Normalize()
	base := s.DB.Model(&models.Complaint{}).Where("user_id = ?", userID)
	return s.pageComplaints(base, q)
}

// ListComplaints повертає сторінку всіх скарг з опціональними фільтрами.
func (s *Service) ListComplaints(q models.PaginationQuery, f ComplaintFilter) (*models.PagedComplaints, error) {
	q = q.Normalize()
	base := s.DB.Model(&models.Complaint{})
	if f.Status != "" {
		base = base.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		base = base.Where("type = ?", f.Type)
	}
	if f.City != "" {
		base = base.Where("city = ?", f.City)
	}
	return s.pageComplaints(base, q)
}

func (s *Service) pageComplaints(base *gorm.DB, q models.PaginationQuery) (*models.PagedComplaints, error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Complaint
	err := base.
		Preload("Images").
		Order(q.OrderClause()).
		Offset(q.Offset()).
		Limit(q.Size).
		Find(&items).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}

	return &models.PagedComplaints{
		Items: items,
		Total: total,
		Page:  q.Page,
		Size:  q.Size,
	}, nil
}

// SaveComplaintWithUpdate атомарно зберігає новий стан скарги та
// додає запис аудиту: обидва записи або проходять, або відкочуються.
func (s *Service) SaveComplaintWithUpdate(c *models.Complaint, upd *models.ComplaintUpdate) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Images", "Updates").Save(c).Error; err != nil {
			return err
		}
		upd.ComplaintID = c.ID
		return tx.Create(upd).Error
	})
}

func (s *Service) CountComplaintsByStatus(status models.ComplaintStatus) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Complaint{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UnresolvedComplaintsWithLocation повертає всі скарги з обома координатами
// та статусом, відмінним від RESOLVED (дані для heatmap).
func (s *Service) UnresolvedComplaintsWithLocation() ([]models.Complaint, error) {
	var items []models.Complaint
	err := s.DB.
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("status <> ?", models.StatusResolved).
		Find(&items).Error
	if err != nil {
		log.Printf("ERROR: Failed to load heatmap complaints: %v", err)
		return nil, err
	}
	return items, nil
}

// DeleteComplaint видаляє скаргу разом із зображеннями та історією.
// Каскад явний, в одній транзакції — без ORM-анотацій.
func (s *Service) DeleteComplaint(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.ComplaintImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.ComplaintUpdate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Complaint{}, id).Error
	})
}

// PublishComplaintEvent публікує подію в Redis Pub/Sub
func (s *Service) PublishComplaintEvent(ev models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil // Redis опціональний (admin CLI)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, ComplaintEventsChannel, payload).Err()
}

// SubscribeComplaintEvents підписується на канал подій скарг.
func (s *Service) SubscribeComplaintEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, ComplaintEventsChannel)
}

// IncrementRequestCount — fixed-window лічильник для rate limiting.
// Повертає нове значення лічильника у поточному вікні.
func (s *Service) IncrementRequestCount(key string, window time.Duration) (int64, error) {
	pipe := s.Redis.TxPipeline()
	incr := pipe.Incr(s.Ctx, key)
	pipe.Expire(s.Ctx, key, window)
	if _, err := pipe.Exec(s.Ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
