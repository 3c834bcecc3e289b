package model

import "gorm.io/datatypes"

// Row is one parsed record keyed by column name.
type Row = map[string]any

// DataContent holds the parsed rows of a dataset. It is written once at upload.
type DataContent struct {
	ID        uint                     `gorm:"primaryKey" json:"id"`
	DatasetID uint                     `gorm:"not null;uniqueIndex" json:"datasetId"`
	Content   datatypes.JSONSlice[Row] `json:"content"`
}
