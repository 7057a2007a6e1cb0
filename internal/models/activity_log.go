package models

// ActivityLog records an advisory notice raised while editing a session's
// budget, so a client can replay the toasts it missed.
type ActivityLog struct {
	Base
	SessionID   string `gorm:"type:uuid;not null;index" json:"session_id"`
	Kind        string `gorm:"size:32;not null" json:"kind"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"not null;default:''" json:"description"`
	Destructive bool   `gorm:"not null;default:false" json:"destructive"`
}
