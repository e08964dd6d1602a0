package models

import (
	"time"
)

// Customer is a client company with its delivery addresses and contacts
type Customer struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CompanyName string            `gorm:"size:100;not null;index" json:"companyName"`
	Addresses   []CustomerAddress `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses"`
	Contacts    []CustomerContact `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"contacts"`
	CreatedAt   time.Time         `json:"createTime"`
	UpdatedAt   time.Time         `json:"updateTime"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customer"
}

// CustomerAddress is one delivery address of a customer
type CustomerAddress struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"not null;index" json:"customerId"`
	Address    string `gorm:"size:255;not null" json:"address"`
}

// TableName specifies the table name for CustomerAddress
func (CustomerAddress) TableName() string {
	return "customer_address"
}

// CustomerContact is one contact person of a customer
type CustomerContact struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CustomerID  uint   `gorm:"not null;index" json:"customerId"`
	ContactName string `gorm:"size:50" json:"contactName"`
	Phone       string `gorm:"size:20" json:"phone"`
}

// TableName specifies the table name for CustomerContact
func (CustomerContact) TableName() string {
	return "customer_contact"
}

// CustomerStats summarizes what references a customer
type CustomerStats struct {
	CustomerID  uint  `json:"customerId"`
	SampleCount int64 `json:"sampleCount"`
	OrderCount  int64 `json:"orderCount"`
}
