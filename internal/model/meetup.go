package model

import (
	"time"

	"gorm.io/gorm"
)

type Meetup struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"size:50;not null" json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	FileID      uint      `json:"file_id"`

	// Derived on read, true when the meetup date has already elapsed
	Past bool `gorm:"-" json:"past"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	File *File `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

func (m *Meetup) AfterFind(*gorm.DB) error {
	m.Past = m.Date.Before(time.Now())
	return nil
}
