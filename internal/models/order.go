package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending      = "PENDING"
	OrderStatusInProduction = "IN_PRODUCTION"
	OrderStatusShipped      = "SHIPPED"
	OrderStatusCompleted    = "COMPLETED"
	OrderStatusCancelled    = "CANCELLED"
)

// Order tracks a production order placed against a sample
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OrderNumber   string     `gorm:"size:50;not null;uniqueIndex" json:"orderNumber"`
	SampleID      *uint      `gorm:"index" json:"sampleId"`
	Model         string     `gorm:"size:100" json:"model"`
	ColorCode     string     `gorm:"size:50" json:"colorCode"`
	CompanyName   string     `gorm:"size:100;index" json:"companyName"`
	Image         string     `gorm:"size:255" json:"image"`
	TotalQuantity int        `gorm:"default:0" json:"totalQuantity"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);default:0" json:"totalAmount"`
	CreateDate    *time.Time `json:"createDate"`
	DeliveryDate  *time.Time `json:"deliveryDate"`
	Status        string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	CreatedAt     time.Time  `json:"createTime"`
	UpdatedAt     time.Time  `json:"updateTime"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

