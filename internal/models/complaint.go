package models

import (
	"time"

	"gorm.io/gorm"
)

// ComplaintStatus — стан скарги. Переходи виконують лише адміністратори;
// модель даних не обмежує порядок переходів (адмін може виправити помилку).
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
)

// ParseComplaintStatus перевіряє, що рядок є відомим статусом.
func ParseComplaintStatus(s string) (ComplaintStatus, bool) {
	switch ComplaintStatus(s) {
	case StatusPending, StatusInProgress, StatusResolved:
		return ComplaintStatus(s), true
	}
	return "", false
}

// ComplaintType — закритий перелік категорій скарг.
type ComplaintType string

const (
	TypeInfrastructure ComplaintType = "INFRASTRUCTURE"
	TypeHealthcare     ComplaintType = "HEALTHCARE"
	TypeSanitation     ComplaintType = "SANITATION"
	TypeSafety         ComplaintType = "SAFETY"
	TypeTransportation ComplaintType = "TRANSPORTATION"
	TypeEducation      ComplaintType = "EDUCATION"
	TypeEnvironment    ComplaintType = "ENVIRONMENT"
	TypeUtilities      ComplaintType = "UTILITIES"
	TypeOther          ComplaintType = "OTHER"
)

// AllComplaintTypes повертає всі категорії (для /public/complaints/types).
func AllComplaintTypes() []ComplaintType {
	return []ComplaintType{
		TypeInfrastructure, TypeHealthcare, TypeSanitation, TypeSafety,
		TypeTransportation, TypeEducation, TypeEnvironment, TypeUtilities,
		TypeOther,
	}
}

// ParseComplaintType перевіряє, що рядок є відомою категорією.
func ParseComplaintType(s string) (ComplaintType, bool) {
	for _, t := range AllComplaintTypes() {
		if ComplaintType(s) == t {
			return t, true
		}
	}
	return "", false
}

// Complaint — центральна сутність: скарга громадянина.
// Власник (UserID) не змінюється після створення.
type Complaint struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"not null;type:text" json:"description"`
	Type        ComplaintType   `gorm:"not null" json:"type"`
	Status      ComplaintStatus `gorm:"not null;default:PENDING" json:"status"`

	UserID uint `gorm:"not null;index" json:"userId"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Координати незалежно nullable: парність не форсується на рівні моделі.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`

	AdminNotes string `gorm:"type:text" json:"adminNotes,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	Images  []ComplaintImage  `gorm:"foreignKey:ComplaintID" json:"images,omitempty"`
	Updates []ComplaintUpdate `gorm:"foreignKey:ComplaintID" json:"updates,omitempty"`
}

// BeforeSave ставить ResolvedAt рівно один раз — при першому збереженні
// у статусі RESOLVED. Пізніші переходи туди-назад його не рухають.
func (c *Complaint) BeforeSave(tx *gorm.DB) error {
	if c.Status == StatusResolved && c.ResolvedAt == nil {
		now := time.Now()
		c.ResolvedAt = &now
	}
	return nil
}

// HasLocation повертає true, якщо присутні обидві координати.
func (c *Complaint) HasLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// ComplaintImage — прикріплене фото. Створюється лише разом зі скаргою.
type ComplaintImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	URL         string `gorm:"not null" json:"url"`
	Name        string `json:"name"`
	SizeBytes   int64  `json:"sizeBytes"`
	ComplaintID uint   `gorm:"not null;index" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// ComplaintUpdate — незмінний запис аудиту переходу статусу.
// Append-only: ніколи не редагується і не видаляється окремо від скарги.
type ComplaintUpdate struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Message        string          `gorm:"not null" json:"message"`
	PreviousStatus ComplaintStatus `gorm:"not null" json:"previousStatus"`
	NewStatus      ComplaintStatus `gorm:"not null" json:"newStatus"`
	ComplaintID    uint            `gorm:"not null;index" json:"-"`
	UserID         *uint           `json:"userId,omitempty"` // nil для системних записів

	CreatedAt time.Time `json:"createdAt"`
}
