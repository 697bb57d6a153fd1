package models

import "time"

// Like is keyed on (post, user); the composite primary key is the uniqueness
// invariant, there is no surrogate id.
type Like struct {
	PostID  int64     `gorm:"column:post_id;primaryKey"`
	UserID  int64     `gorm:"column:user_id;primaryKey"`
	LikedAt time.Time `gorm:"column:liked_at;autoCreateTime"`
}

func (Like) TableName() string { return "likes" }
