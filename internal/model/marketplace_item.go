package model

import "time"

type MarketplaceItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:128" json:"category"`
	Price       string    `gorm:"size:64;not null" json:"price"`
	Rating      float64   `gorm:"not null" json:"rating"`
	DatasetID   uint      `gorm:"index" json:"datasetId"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
