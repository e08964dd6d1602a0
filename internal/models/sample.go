package models

import (
	"time"
)

// Sample is a catalog item (a colour/model variant) held in stock for a customer
type Sample struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  *uint     `gorm:"index" json:"customerId"`
	CompanyName string    `gorm:"size:100" json:"companyName"`
	Alias       string    `gorm:"size:100" json:"alias"`
	Model       string    `gorm:"size:100;index" json:"model"`
	ColorCode   string    `gorm:"size:50" json:"colorCode"`
	Image       string    `gorm:"size:255" json:"image"`
	Stock       int       `gorm:"default:0" json:"stock"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	CreatedAt   time.Time `json:"createTime"`
	UpdatedAt   time.Time `json:"updateTime"`
}

// TableName specifies the table name for Sample
func (Sample) TableName() string {
	return "sample"
}

// HasImage reports whether an image file is attached
func (s *Sample) HasImage() bool {
	return s.Image != ""
}
