package model

import (
	"time"

	"gorm.io/datatypes"
)

type DatasetStatus string

const (
	DatasetStatusUploaded   DatasetStatus = "uploaded"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusProcessed  DatasetStatus = "processed"
	DatasetStatusError      DatasetStatus = "error"
)

// Done reports whether analysis has reached a terminal status.
func (s DatasetStatus) Done() bool {
	return s == DatasetStatusProcessed || s == DatasetStatusError
}

type Dataset struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Name      string                      `gorm:"size:256;not null" json:"name"`
	UserID    uint                        `gorm:"not null;index" json:"userId"`
	FileType  string                      `gorm:"size:32;not null" json:"fileType"`
	Status    DatasetStatus               `gorm:"size:16;not null" json:"status"`
	RowCount  int                         `gorm:"not null;default:0" json:"rowCount"`
	Columns   datatypes.JSONSlice[string] `json:"columns"`
	Summary   string                      `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}
