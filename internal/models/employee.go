package models

import (
	"time"
)

// Employee is an entry in the staff directory
type Employee struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:50;not null" json:"name"`
	Gender    string     `gorm:"size:10" json:"gender"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Email     string     `gorm:"size:100" json:"email"`
	IDCard    string     `gorm:"column:id_card;size:30" json:"idCard"`
	HireDate  *time.Time `json:"hireDate"`
	CreatedAt time.Time  `json:"createTime"`
	UpdatedAt time.Time  `json:"updateTime"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employee"
}
