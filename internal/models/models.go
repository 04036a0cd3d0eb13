package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// File type classes assigned at upload from the file extension.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypeOther = "other"
)

// Share permission tiers. Full is accepted and stored but gates exactly the
// same operations as edit; it is a reserved tier.
const (
	PermissionRead = "read"
	PermissionEdit = "edit"
	PermissionFull = "full"
)

type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Folder nodes form a forest: ParentID is nil for roots. Parent pointers are
// assigned at creation and never rewired, so the structure is acyclic by
// construction.
type Folder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"not null;index" json:"name"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// File rows own their blobs: the original lives in the files store under
// StoredName, derived thumbnails/previews under "{ID}.jpg". StoredName is
// assigned once at creation and never derived from the display name.
type File struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;index" json:"name"`
	FolderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"folder_id"`
	StoredName string    `gorm:"not null;uniqueIndex" json:"-"`
	FileType   string    `gorm:"not null;index" json:"file_type"`
	Size       int64     `gorm:"not null" json:"size"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Share grants token-capability access to the whole subtree rooted at
// FolderID, at a fixed permission tier, until deleted.
type Share struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FolderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"folder_id"`
	Token      string    `gorm:"not null;uniqueIndex" json:"token"`
	Permission string    `gorm:"not null" json:"permission"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (s *Share) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action     string         `gorm:"not null;index" json:"action"`
	ShareToken string         `gorm:"index" json:"share_token,omitempty"`
	FolderName string         `json:"folder_name,omitempty"`
	FileName   string         `json:"file_name,omitempty"`
	Details    datatypes.JSON `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type PrintProduct struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (p *PrintProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

type PrintOrder struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ShareToken    string         `gorm:"not null;index" json:"share_token"`
	CustomerName  string         `gorm:"not null" json:"customer_name"`
	CustomerEmail string         `gorm:"not null" json:"customer_email"`
	Items         datatypes.JSON `json:"items"`
	SubtotalCents int64          `gorm:"not null" json:"subtotal_cents"`
	Status        string         `gorm:"not null;index" json:"status"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (o *PrintOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusNew
	}
	return nil
}
