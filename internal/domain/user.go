package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a minimal read model; identity and credentials are owned by the
// auth service. Role drives route-level permissions.
type User struct {
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Fullname  string         `gorm:"column:fullname;not null" json:"fullname"`
	Role      string         `gorm:"column:role;type:varchar(20);not null" json:"role"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// GroupMembership backs eligibility checks (e.g. the investors group gates
// participation purchases).
type GroupMembership struct {
	MembershipID uuid.UUID `gorm:"column:membership_id;type:uuid;primaryKey" json:"membership_id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_membership,priority:1" json:"user_id"`
	GroupName    string    `gorm:"column:group_name;type:varchar(40);not null;uniqueIndex:idx_membership,priority:2" json:"group_name"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (GroupMembership) TableName() string {
	return "GroupMemberships"
}

func (m *GroupMembership) BeforeCreate(tx *gorm.DB) error {
	if m.MembershipID == uuid.Nil {
		m.MembershipID = uuid.New()
	}
	return nil
}
