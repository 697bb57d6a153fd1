package models

import "time"

// Comment is create-once; there is no edit path.
type Comment struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;index:comments_post_id_idx"`
	UserID    int64     `gorm:"column:user_id;not null;index:comments_user_id_idx"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
