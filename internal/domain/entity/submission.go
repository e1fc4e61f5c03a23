package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleSubmission records one submit action and its outcome
type SaleSubmission struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	IdempotencyKey string                `gorm:"uniqueIndex;size:255;not null" json:"idempotency_key"`
	Reference      string                `gorm:"size:50;not null" json:"reference"`
	EmployeeID     int64                 `gorm:"not null;index" json:"employee_id"`
	Slot           int                   `gorm:"not null" json:"slot"`
	CustomerName   string                `gorm:"size:255" json:"customer_name"`
	ContactNumber  string                `gorm:"size:50" json:"contact_number"`
	PaymentMethod  enum.PaymentMethod    `gorm:"size:20" json:"payment_method"`
	ItemCount      int                   `gorm:"default:0" json:"item_count"`
	TotalAmount    decimal.Decimal       `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status         enum.SubmissionStatus `gorm:"size:20;index;not null" json:"status"`
	Attempts       int                   `gorm:"default:0" json:"attempts"`
	Message        string                `gorm:"type:text" json:"message,omitempty"`
	RequestHash    string                `gorm:"size:64" json:"-"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new submission
func (s *SaleSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleSubmission model
func (SaleSubmission) TableName() string {
	return "sale_submissions"
}
