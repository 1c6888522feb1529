package complaint_test

import (
	"errors"
	"testing"

	"civicgo/backend/internal/complaint"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/notify"
	"civicgo/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func citizen() *models.User {
	return &models.User{ID: 7, Name: "Olena", Email: "olena@example.com", Role: models.RoleCitizen}
}

func admin() *models.User {
	return &models.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
}

func validRequest() complaint.CreateRequest {
	lat, lon := 12.9, 77.6
	return complaint.CreateRequest{
		Title:       "Pothole",
		Description: "Large pothole on Main St",
		Type:        "INFRASTRUCTURE",
		Latitude:    &lat,
		Longitude:   &lon,
		City:        "Springfield",
	}
}

// TestCreate_ForcesPendingAndInitialAudit: нова скарга завжди PENDING,
// з рівно одним записом аудиту PENDING→PENDING.
func TestCreate_ForcesPendingAndInitialAudit(t *testing.T) {
	// Arrange
	st := new(MockStorage)
	st.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	st.On("PublishComplaintEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)
	notifier := new(MockNotifier)
	svc := complaint.NewService(st, notifier)

	// Act
	created, err := svc.Create(validRequest(), citizen())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	require.Len(t, created.Updates, 1)
	assert.Equal(t, models.StatusPending, created.Updates[0].PreviousStatus)
	assert.Equal(t, models.StatusPending, created.Updates[0].NewStatus)
	assert.Equal(t, "Complaint submitted", created.Updates[0].Message)
	assert.Equal(t, uint(7), created.UserID)

	// Рівно одне сповіщення про подання
	assert.Len(t, notifier.Submitted, 1)
	st.AssertExpectations(t)
}

// TestCreate_Validation: порожні обов'язкові поля та невідомий тип
// відхиляються до звернення до сховища.
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*complaint.CreateRequest)
	}{
		{"blank title", func(r *complaint.CreateRequest) { r.Title = "   " }},
		{"blank description", func(r *complaint.CreateRequest) { r.Description = "" }},
		{"unknown type", func(r *complaint.CreateRequest) { r.Type = "POTHOLES" }},
		{"empty type", func(r *complaint.CreateRequest) { r.Type = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockStorage)
			notifier := new(MockNotifier)
			svc := complaint.NewService(st, notifier)

			req := validRequest()
			tt.mutate(&req)

			created, err := svc.Create(req, citizen())

			assert.Nil(t, created)
			assert.ErrorIs(t, err, complaint.ErrValidation)
			assert.Empty(t, notifier.Submitted)
			st.AssertNotCalled(t, "CreateComplaint", mock.Anything)
		})
	}
}

// TestCreate_ImageNameDerivation: ім'я зображення — останній сегмент URL;
// порожні рядки пропускаються; порожній сегмент дає запасне ім'я.
func TestCreate_ImageNameDerivation(t *testing.T) {
	st := new(MockStorage)
	st.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	st.On("PublishComplaintEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)
	svc := complaint.NewService(st, new(MockNotifier))

	req := validRequest()
	req.ImageURLs = []string{
		"/uploads/abc-123.jpg",
		"   ",
		"",
		"http://cdn.example.com/photos/",
	}

	created, err := svc.Create(req, citizen())
	require.NoError(t, err)

	require.Len(t, created.Images, 2)
	assert.Equal(t, "abc-123.jpg", created.Images[0].Name)
	assert.Equal(t, "/uploads/abc-123.jpg", created.Images[0].URL)
	// URL, що закінчується на '/', отримує запасне ім'я на основі часу
	assert.Contains(t, created.Images[1].Name, "image_")
}

// TestGet_OrderOfChecks: not-found перевіряється раніше за власність.
func TestGet_OrderOfChecks(t *testing.T) {
	owner := citizen()
	other := &models.User{ID: 99, Role: models.RoleCitizen}

	t.Run("missing id yields not found for anyone", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetComplaintByID", uint(5)).Return(nil, nil)
		svc := complaint.NewService(st, new(MockNotifier))

		_, err := svc.Get(5, other)
		assert.ErrorIs(t, err, complaint.ErrNotFound)
	})

	t.Run("non-owner non-admin is forbidden", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetComplaintByID", uint(5)).Return(&models.Complaint{ID: 5, UserID: owner.ID}, nil)
		svc := complaint.NewService(st, new(MockNotifier))

		_, err := svc.Get(5, other)
		assert.ErrorIs(t, err, complaint.ErrForbidden)
	})

	t.Run("owner and admin both succeed", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetComplaintByID", uint(5)).Return(&models.Complaint{ID: 5, UserID: owner.ID}, nil)
		svc := complaint.NewService(st, new(MockNotifier))

		c, err := svc.Get(5, owner)
		require.NoError(t, err)
		assert.Equal(t, uint(5), c.ID)

		c, err = svc.Get(5, admin())
		require.NoError(t, err)
		assert.Equal(t, uint(5), c.ID)
	})
}

// TestUpdateStatus_NoOpTransition: new == old зберігає нотатки та додає
// запис аудиту, але не шле жодного сповіщення.
func TestUpdateStatus_NoOpTransition(t *testing.T) {
	st := new(MockStorage)
	existing := &models.Complaint{ID: 3, UserID: 7, Status: models.StatusPending}
	st.On("GetComplaintByID", uint(3)).Return(existing, nil)
	st.On("SaveComplaintWithUpdate", existing, mock.AnythingOfType("*models.ComplaintUpdate")).Return(nil)
	notifier := new(MockNotifier)
	svc := complaint.NewService(st, notifier)

	updated, err := svc.UpdateStatus(3, models.StatusPending, "checked on site", admin())

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, "checked on site", updated.AdminNotes)
	assert.Empty(t, notifier.Changed)
	assert.Empty(t, notifier.Confirmations)
	st.AssertExpectations(t)
}

// TestUpdateStatus_NotificationMatrix: рівно одне сповіщення про зміну
// статусу, плюс підтвердження вирішення тоді й лише тоді, коли новий
// статус RESOLVED.
func TestUpdateStatus_NotificationMatrix(t *testing.T) {
	tests := []struct {
		name              string
		from, to          models.ComplaintStatus
		wantChanged       int
		wantConfirmations int
	}{
		{"pending to in_progress", models.StatusPending, models.StatusInProgress, 1, 0},
		{"pending straight to resolved", models.StatusPending, models.StatusResolved, 1, 1},
		{"in_progress to resolved", models.StatusInProgress, models.StatusResolved, 1, 1},
		{"backward move resolved to pending", models.StatusResolved, models.StatusPending, 1, 0},
		{"no-op in_progress", models.StatusInProgress, models.StatusInProgress, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockStorage)
			existing := &models.Complaint{ID: 3, UserID: 7, Status: tt.from}
			st.On("GetComplaintByID", uint(3)).Return(existing, nil)
			st.On("SaveComplaintWithUpdate", existing, mock.AnythingOfType("*models.ComplaintUpdate")).Return(nil)
			if tt.wantChanged > 0 {
				st.On("PublishComplaintEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)
			}
			notifier := new(MockNotifier)
			svc := complaint.NewService(st, notifier)

			_, err := svc.UpdateStatus(3, tt.to, "", admin())

			require.NoError(t, err)
			assert.Len(t, notifier.Changed, tt.wantChanged)
			assert.Len(t, notifier.Confirmations, tt.wantConfirmations)
			if tt.wantChanged > 0 {
				assert.Equal(t, tt.from, notifier.Changed[0].Old)
				assert.Equal(t, tt.to, notifier.Changed[0].New)
			}
		})
	}
}

// TestUpdateStatus_AuditRecord: запис аудиту містить пару статусів
// та автора переходу.
func TestUpdateStatus_AuditRecord(t *testing.T) {
	st := new(MockStorage)
	existing := &models.Complaint{ID: 3, UserID: 7, Status: models.StatusPending}
	st.On("GetComplaintByID", uint(3)).Return(existing, nil)

	var captured *models.ComplaintUpdate
	st.On("SaveComplaintWithUpdate", existing, mock.AnythingOfType("*models.ComplaintUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*models.ComplaintUpdate)
		}).Return(nil)
	st.On("PublishComplaintEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)
	svc := complaint.NewService(st, new(MockNotifier))

	_, err := svc.UpdateStatus(3, models.StatusInProgress, "", admin())

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, models.StatusPending, captured.PreviousStatus)
	assert.Equal(t, models.StatusInProgress, captured.NewStatus)
	assert.Equal(t, "Status updated from PENDING to IN_PROGRESS", captured.Message)
	require.NotNil(t, captured.UserID)
	assert.Equal(t, admin().ID, *captured.UserID)
}

// capturingSender збирає адресатів листів, щоб перевірити адресацію
// наскрізь через справжній notify.Dispatcher.
type capturingSender struct {
	sent []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.sent = append(s.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

// TestUpdateStatus_EmailsAddressSubmitter: листи про зміну статусу та
// підтвердження вирішення адресуються заявнику. Сховище повертає скаргу
// із підвантаженим заявником, і саме його email має стояти в to.
func TestUpdateStatus_EmailsAddressSubmitter(t *testing.T) {
	// Arrange: скарга у формі, в якій її віддає сховище
	st := new(MockStorage)
	existing := &models.Complaint{
		ID:     3,
		UserID: 7,
		Status: models.StatusInProgress,
		User:   models.User{ID: 7, Name: "Olena", Email: "olena@example.com"},
	}
	st.On("GetComplaintByID", uint(3)).Return(existing, nil)
	st.On("SaveComplaintWithUpdate", existing, mock.AnythingOfType("*models.ComplaintUpdate")).Return(nil)
	st.On("PublishComplaintEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	sender := &capturingSender{}
	svc := complaint.NewService(st, notify.NewDispatcher(sender, nil))

	// Act
	_, err := svc.UpdateStatus(3, models.StatusResolved, "Fixed", admin())

	// Assert: зміна статусу + підтвердження вирішення, обидва заявнику
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	for _, mail := range sender.sent {
		assert.NotEmpty(t, mail.To, "email must address the submitter")
		assert.Equal(t, "olena@example.com", mail.To)
	}
	assert.Contains(t, sender.sent[0].Body, "Dear Olena,")
	assert.Contains(t, sender.sent[1].Body, "Dear Olena,")
}

// TestUpdateStatus_NotFound: відсутня скарга дає ErrNotFound.
func TestUpdateStatus_NotFound(t *testing.T) {
	st := new(MockStorage)
	st.On("GetComplaintByID", uint(404)).Return(nil, nil)
	svc := complaint.NewService(st, new(MockNotifier))

	_, err := svc.UpdateStatus(404, models.StatusResolved, "", admin())
	assert.ErrorIs(t, err, complaint.ErrNotFound)
}

// TestGetStats_SumsThreeKnownStatuses: total — це сума трьох відомих
// лічильників (особливість збережена навмисно).
func TestGetStats_SumsThreeKnownStatuses(t *testing.T) {
	st := new(MockStorage)
	st.On("CountComplaintsByStatus", models.StatusPending).Return(int64(5), nil)
	st.On("CountComplaintsByStatus", models.StatusInProgress).Return(int64(3), nil)
	st.On("CountComplaintsByStatus", models.StatusResolved).Return(int64(2), nil)
	svc := complaint.NewService(st, new(MockNotifier))

	stats, err := svc.GetStats()

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalComplaints)
	assert.Equal(t, int64(5), stats.PendingComplaints)
	assert.Equal(t, int64(3), stats.InProgressComplaints)
	assert.Equal(t, int64(2), stats.ResolvedComplaints)
}

// TestCreate_StorageFailurePropagates: помилка запису — фатальна для
// операції, сповіщення не надсилаються.
func TestCreate_StorageFailurePropagates(t *testing.T) {
	st := new(MockStorage)
	st.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Return(errors.New("db down"))
	notifier := new(MockNotifier)
	svc := complaint.NewService(st, notifier)

	created, err := svc.Create(validRequest(), citizen())

	assert.Nil(t, created)
	assert.EqualError(t, err, "db down")
	assert.Empty(t, notifier.Submitted)
}

// TestListAll_PassesFilters: фільтри адмінського списку доходять до
// сховища без змін.
func TestListAll_PassesFilters(t *testing.T) {
	st := new(MockStorage)
	filter := storage.ComplaintFilter{Status: models.StatusPending, City: "Kyiv"}
	page := &models.PagedComplaints{Total: 0, Page: 0, Size: 10}
	st.On("ListComplaints", mock.AnythingOfType("models.PaginationQuery"), filter).Return(page, nil)
	svc := complaint.NewService(st, new(MockNotifier))

	got, err := svc.ListAll(models.PaginationQuery{}, filter)

	require.NoError(t, err)
	assert.Equal(t, page, got)
	st.AssertExpectations(t)
}
