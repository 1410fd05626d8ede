package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusUnavailable EquipmentStatus = "unavailable"
	EquipmentStatusRented      EquipmentStatus = "rented"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending_review"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

type Equipment struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	DailyPrice  int64  `json:"daily_price"`
	// WeeklyPrice is 0 when the owner did not set a weekly rate; pricing
	// then falls back to the daily rate for every day.
	WeeklyPrice    int64            `json:"weekly_price"`
	DepositAmount  int64            `json:"deposit_amount"`
	City           string           `json:"city"`
	Country        string           `json:"country"`
	Address        string           `json:"address"`
	Status         EquipmentStatus  `json:"status"`
	ApprovalStatus ApprovalStatus   `json:"approval_status"`
	Images         []EquipmentImage `json:"images,omitempty"`
	CreatedOn      string           `json:"created_on"`
	UpdatedOn      string           `json:"updated_on"`
}

type EquipmentImage struct {
	ID           string    `json:"id"`
	EquipmentID  string    `json:"equipment_id"`
	URL          string    `json:"url"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int32     `json:"display_order"`
	CreatedOn    time.Time `json:"created_on"`
}
