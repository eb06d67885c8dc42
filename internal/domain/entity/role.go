package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin    = 1
	RoleIDCustomer = 2
)

// RoleNames constants
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// DefaultRoles are seeded by the migrate command.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleIDAdmin, RoleName: RoleAdmin, Description: "Manages the product catalog"},
		{ID: RoleIDCustomer, RoleName: RoleCustomer, Description: "Browses the product catalog"},
	}
}
