package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobDescription is one row of the JD table. Data keeps the free-form fields
// the client sent; Title and Category are copied out of it for filtering.
type JobDescription struct {
	ID        string            `gorm:"type:text;primaryKey" json:"id"`
	Title     string            `gorm:"type:text" json:"title"`
	Category  string            `gorm:"type:text;index" json:"category"`
	Data      datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time         `gorm:"type:timestamptz;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;autoUpdateTime:false" json:"updatedAt"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}

// JDFilter narrows a listing. ID, when set, selects a single record and
// Category is ignored.
type JDFilter struct {
	ID       string
	Category string
}
