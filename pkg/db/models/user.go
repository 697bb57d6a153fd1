package models

import "time"

// User is the local account row tied to an external identity subject.
// Subject is internal only and never serialized into responses.
type User struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Subject       string    `gorm:"column:subject;not null;uniqueIndex:users_subject_key"`
	Username      string    `gorm:"column:username;not null;uniqueIndex:users_username_key"`
	Email         string    `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	IsAdmin       bool      `gorm:"column:is_admin;not null;default:false"`
	IsDisabled    bool      `gorm:"column:is_disabled;not null;default:false"`
	Bio           string    `gorm:"column:bio;not null;default:''"`
	ProfilePicURL string    `gorm:"column:profile_pic_url;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
