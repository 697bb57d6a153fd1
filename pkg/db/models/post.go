package models

import "time"

// Post always carries an image; the caption is optional.
type Post struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64      `gorm:"column:user_id;not null;index:posts_user_id_idx"`
	ImageURL  string     `gorm:"column:image_url;not null"`
	Caption   *string    `gorm:"column:caption"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	EditedAt  *time.Time `gorm:"column:edited_at"`
}
