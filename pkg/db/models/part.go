package models

import "time"

// Part is a catalog entry submitted by a user. Once a moderator verifies it,
// the submitter can no longer delete it.
type Part struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BrandID     int64     `gorm:"column:brand_id;not null;index:parts_brand_id_idx"`
	PartTypeID  int64     `gorm:"column:part_type_id;not null;index:parts_part_type_id_idx"`
	SubmittedBy int64     `gorm:"column:submitted_by;not null;index:parts_submitted_by_idx"`
	Name        string    `gorm:"column:name;not null"`
	PartNumber  *string   `gorm:"column:part_number"`
	ImageURL    *string   `gorm:"column:image_url"`
	Description *string   `gorm:"column:description"`
	IsVerified  bool      `gorm:"column:is_verified;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
