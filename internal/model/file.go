package model

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type File struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `json:"-"`

	// Original file name before turning it into a unique storage key
	Name string `json:"name"`

	// Storage key, either an S3 object key or a path relative to storage.path
	Path string `gorm:"not null" json:"path"`

	// Derived on read, never stored. The URL only depends on the host domain
	// and the storage key so persisting it would just go stale on domain changes
	URL string `gorm:"-" json:"url"`

	CreatedAt time.Time `json:"-"`
}

func (f *File) AfterFind(*gorm.DB) error {
	f.URL = fmt.Sprintf("http://%s/files/%s", viper.GetString("host.domain"), f.Path)
	return nil
}
