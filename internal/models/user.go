// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user profile in Kindred.
//
// Phone and Email are contact fields reserved for the owner; they are never
// serialized directly and are only disclosed through the profile access
// resolver at the "own" tier.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"unique;not null" json:"-"`
	Phone        string         `json:"-"`
	Age          int            `json:"age,omitempty"`
	Religion     string         `json:"religion,omitempty"`
	Place        string         `json:"place,omitempty"`
	Skills       []string       `gorm:"serializer:json" json:"skills,omitempty"`
	Profession   string         `json:"profession,omitempty"`
	Bio          string         `json:"bio,omitempty"`
	Photos       []string       `gorm:"serializer:json" json:"photos,omitempty"`
	Achievements []string       `gorm:"serializer:json" json:"achievements,omitempty"`
	College      string         `json:"college,omitempty"`
	Company      string         `json:"company,omitempty"`
	Website      string         `json:"website,omitempty"`
	Verified     bool           `json:"verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
