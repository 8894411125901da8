package leads

import (
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
)

// CreateLeadRequest is the lead capture form payload.
type CreateLeadRequest struct {
	ShopName        string     `json:"shop_name" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Phone           string     `json:"phone" validate:"required"`
	Email           *string    `json:"email,omitempty" validate:"omitempty,email"`
	Address         *string    `json:"address,omitempty"`
	ProductInterest *string    `json:"product_interest,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	FollowUpDate    *time.Time `json:"follow_up_date,omitempty"`
}

// UpdateStatusRequest moves a lead along the funnel.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified converted lost"`
}

// LeadDTO is the API shape of one lead.
type LeadDTO struct {
	ID              uuid.UUID        `json:"id"`
	CapturedBy      uuid.UUID        `json:"captured_by"`
	ShopName        string           `json:"shop_name"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Email           *string          `json:"email"`
	Address         *string          `json:"address"`
	ProductInterest *string          `json:"product_interest"`
	Notes           *string          `json:"notes"`
	ImageURL        *string          `json:"image_url"`
	FollowUpDate    *time.Time       `json:"follow_up_date"`
	Status          enums.LeadStatus `json:"status"`
	CapturedAt      time.Time        `json:"captured_at"`
}

// ListParams scopes a listing to one capturing user with an optional
// status filter.
type ListParams struct {
	CapturedBy uuid.UUID
	Status     *enums.LeadStatus
	pkgpagination.Params
}

// ListResult is one page of leads plus the cursor for the next page.
type ListResult struct {
	Items  []LeadDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

type listQuery struct {
	capturedBy uuid.UUID
	status     *enums.LeadStatus
	limit      int
	cursor     *pkgpagination.Cursor
}

// FromModel converts a persistence row into the API shape.
func FromModel(m *models.Lead) *LeadDTO {
	if m == nil {
		return nil
	}
	return &LeadDTO{
		ID:              m.ID,
		CapturedBy:      m.CapturedBy,
		ShopName:        m.ShopName,
		Name:            m.Name,
		Phone:           m.Phone,
		Email:           m.Email,
		Address:         m.Address,
		ProductInterest: m.ProductInterest,
		Notes:           m.Notes,
		ImageURL:        m.ImageURL,
		FollowUpDate:    m.FollowUpDate,
		Status:          m.Status,
		CapturedAt:      m.CapturedAt,
	}
}
