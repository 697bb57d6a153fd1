package models

import "time"

// Build is a user's project: one vehicle plus a set of parts via build_parts.
type Build struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64     `gorm:"column:user_id;not null;index:builds_user_id_idx"`
	VehicleID       int64     `gorm:"column:vehicle_id;not null"`
	Nickname        *string   `gorm:"column:nickname"`
	CoverPictureURL *string   `gorm:"column:cover_picture_url"`
	Description     *string   `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
