package models

import "time"

// User represents an account that can join challenges and submit proofs
type User struct {
    ID            string     `gorm:"type:uuid;default:gen_random_uuid();primary_key" json:"id"`
    Email         string     `gorm:"type:varchar(255);unique;not null" json:"email"`
    Firstname     string     `gorm:"type:varchar(100);not null" json:"firstname"`
    Lastname      string     `gorm:"type:varchar(100);not null" json:"lastname"`
    Password      string     `gorm:"type:varchar(255);not null" json:"-"`
    IsAdmin       bool       `gorm:"not null;default:false" json:"is_admin"`
    Blocked       bool       `gorm:"not null;default:false" json:"blocked"`
    TotalPoints   int        `gorm:"type:integer;not null;default:0;column:total_points" json:"total_points"`
    LastConnected *time.Time `gorm:"column:last_connected" json:"last_connected"`
    Attempts      []*ChallengeAttempt `gorm:"foreignKey:UserID" json:"attempts,omitempty"`
}
