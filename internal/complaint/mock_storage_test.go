package complaint_test

import (
	"time"

	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStorage) UserExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) UserExistsByPhone(phone string) (bool, error) {
	args := m.Called(phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	if args.Error(0) == nil && c.ID == 0 {
		c.ID = 1 // БД присвоїла id
	}
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) ListComplaintsByUser(userID uint, q models.PaginationQuery) (*models.PagedComplaints, error) {
	args := m.Called(userID, q)
	p, _ := args.Get(0).(*models.PagedComplaints)
	return p, args.Error(1)
}

func (m *MockStorage) ListComplaints(q models.PaginationQuery, f storage.ComplaintFilter) (*models.PagedComplaints, error) {
	args := m.Called(q, f)
	p, _ := args.Get(0).(*models.PagedComplaints)
	return p, args.Error(1)
}

func (m *MockStorage) SaveComplaintWithUpdate(c *models.Complaint, upd *models.ComplaintUpdate) error {
	args := m.Called(c, upd)
	return args.Error(0)
}

func (m *MockStorage) CountComplaintsByStatus(status models.ComplaintStatus) (int64, error) {
	args := m.Called(status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) UnresolvedComplaintsWithLocation() ([]models.Complaint, error) {
	args := m.Called()
	items, _ := args.Get(0).([]models.Complaint)
	return items, args.Error(1)
}

func (m *MockStorage) DeleteComplaint(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) PublishComplaintEvent(ev models.ComplaintEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockStorage) IncrementRequestCount(key string, window time.Duration) (int64, error) {
	args := m.Called(key, window)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier фіксує виклики сповіщень для перевірки в тестах.
type MockNotifier struct {
	Submitted     []*models.Complaint
	Changed       []statusChange
	Confirmations []*models.Complaint
}

type statusChange struct {
	Complaint *models.Complaint
	Old, New  models.ComplaintStatus
}

func (n *MockNotifier) ComplaintSubmitted(c *models.Complaint) {
	n.Submitted = append(n.Submitted, c)
}

func (n *MockNotifier) StatusChanged(c *models.Complaint, oldStatus, newStatus models.ComplaintStatus) {
	n.Changed = append(n.Changed, statusChange{Complaint: c, Old: oldStatus, New: newStatus})
}

func (n *MockNotifier) ResolutionConfirmationRequested(c *models.Complaint) {
	n.Confirmations = append(n.Confirmations, c)
}
