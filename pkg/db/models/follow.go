package models

import "time"

// Follow is a directed edge; follower != following is enforced by a CHECK
// constraint in addition to the service-level validation.
type Follow struct {
	FollowerID  int64     `gorm:"column:follower_id;primaryKey"`
	FollowingID int64     `gorm:"column:following_id;primaryKey"`
	FollowedAt  time.Time `gorm:"column:followed_at;autoCreateTime"`
}

func (Follow) TableName() string { return "follows" }
