package model

import "time"

type Subscription struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string `gorm:"index;not null" json:"user_id"`
	MeetupID uint   `gorm:"index;not null" json:"meetup_id"`

	CreatedAt time.Time `json:"-"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Meetup *Meetup `gorm:"foreignKey:MeetupID" json:"meetup,omitempty"`
}
