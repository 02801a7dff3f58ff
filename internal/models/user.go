package models

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents an authenticated account: buyer, seller or admin.
type User struct {
	BaseModel
	FullName      string         `json:"full_name"`
	Email         string         `gorm:"uniqueIndex" json:"email"`
	Phone         string         `json:"phone"`
	PasswordHash  string         `json:"-"`
	Role          string         `gorm:"index" json:"role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	Addresses     []UserAddress  `json:"addresses,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}
