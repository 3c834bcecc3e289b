package repository

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"askdata/internal/model"
)

const (
	DemoUsername = "demo"
	DemoPassword = "password"
)

// SeedDemoData installs the demo user, its two sample datasets and the
// marketplace listing. It is a no-op when the demo user already exists.
func SeedDemoData(stores Stores) (*model.User, error) {
	existing, err := stores.Users.GetByUsername(DemoUsername)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password failed: %w", err)
	}
	user := &model.User{Username: DemoUsername, PasswordHash: string(hash)}
	if err := stores.Users.Create(user); err != nil {
		return nil, err
	}

	now := time.Now()
	datasets := []model.Dataset{
		{
			Name:      "Customer Sales Data Q2 2023",
			UserID:    user.ID,
			FileType:  "csv",
			Status:    model.DatasetStatusProcessed,
			RowCount:  12543,
			Columns:   []string{"date", "customer_id", "product", "amount", "region"},
			CreatedAt: now.Add(-3 * time.Hour),
			UpdatedAt: now.Add(-3 * time.Hour),
		},
		{
			Name:      "Marketing Campaign Results",
			UserID:    user.ID,
			FileType:  "excel",
			Status:    model.DatasetStatusProcessed,
			RowCount:  5128,
			Columns:   []string{"campaign_id", "date", "channel", "spend", "clicks", "conversions"},
			CreatedAt: now.Add(-48 * time.Hour),
			UpdatedAt: now.Add(-48 * time.Hour),
		},
	}
	for i := range datasets {
		if err := stores.Datasets.Create(&datasets[i]); err != nil {
			return nil, err
		}
	}

	items := []model.MarketplaceItem{
		{
			Title:       "Retail Consumer Behavior Data",
			Description: "Comprehensive dataset of consumer behavior patterns across more than 50 retail categories.",
			Category:    "Retail & E-commerce",
			Price:       "R$ 2.500",
			Rating:      4.5,
		},
		{
			Title:       "Financial Market Trends 2024",
			Description: "Stock market data, cryptocurrency trends and economic indicators.",
			Category:    "Finance & Investing",
			Price:       "R$ 1.800",
			Rating:      4.2,
		},
		{
			Title:       "Healthcare Analytics Dataset",
			Description: "Anonymized patient data, treatment outcomes and healthcare institution performance.",
			Category:    "Health & Medicine",
			Price:       "R$ 3.200",
			Rating:      4.8,
		},
		{
			Title:       "Social Media Engagement Metrics",
			Description: "User engagement patterns, content performance and social media analytics.",
			Category:    "Marketing & Social Media",
			Price:       "R$ 950",
			Rating:      4.0,
		},
	}
	for i := range items {
		items[i].UserID = user.ID
		if err := stores.Marketplace.Create(&items[i]); err != nil {
			return nil, err
		}
	}

	return user, nil
}
