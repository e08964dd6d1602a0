package models

import (
	"fmt"
	"time"

	"github.com/mssola/useragent"
)

// Audit outcome values stored in OperationLog.Status
const (
	AuditStatusFailure = 0
	AuditStatusSuccess = 1
)

// Audit action labels
const (
	ActionCreate        = "CREATE"
	ActionUpdate        = "UPDATE"
	ActionDelete        = "DELETE"
	ActionLogin         = "LOGIN"
	ActionCascadeDelete = "CASCADE_DELETE"
)

// OperationLog is one audit trail entry. Actor fields are captured at request time.
type OperationLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        *uint     `gorm:"index" json:"userId"`
	OperatorName  string    `gorm:"size:50;index" json:"operatorName"`
	Role          string    `gorm:"size:20" json:"role"`
	Module        string    `gorm:"size:50;index" json:"module"`
	Action        string    `gorm:"size:30;index" json:"action"`
	Description   string    `gorm:"size:255" json:"description"`
	Method        string    `gorm:"size:255" json:"method"`
	RequestURL    string    `gorm:"column:request_url;size:255" json:"requestUrl"`
	RequestMethod string    `gorm:"size:10" json:"requestMethod"`
	RequestParams string    `gorm:"type:text" json:"requestParams"`
	OldData       string    `gorm:"type:text" json:"oldData"`
	NewData       string    `gorm:"type:text" json:"newData"`
	ResponseData  string    `gorm:"type:text" json:"responseData"`
	IPAddress     string    `gorm:"column:ip_address;size:64" json:"ipAddress"`
	UserAgent     string    `gorm:"size:500" json:"userAgent"`
	Status        int       `gorm:"not null" json:"status"`
	ErrorMsg      string    `gorm:"type:text" json:"errorMsg"`
	Duration      int64     `json:"duration"`
	CreatedAt     time.Time `gorm:"index" json:"createTime"`
}

// TableName specifies the table name for OperationLog
func (OperationLog) TableName() string {
	return "operation_log"
}

// Succeeded reports whether the audited operation completed without error
func (l *OperationLog) Succeeded() bool {
	return l.Status == AuditStatusSuccess
}

// OperationLogResponse adds a readable client summary to the stored entry
type OperationLogResponse struct {
	OperationLog
	Client string `json:"client"`
}

// ToResponse converts OperationLog to OperationLogResponse
func (l *OperationLog) ToResponse() OperationLogResponse {
	return OperationLogResponse{
		OperationLog: *l,
		Client:       ClientSummary(l.UserAgent),
	}
}

// ClientSummary renders a user agent as "Browser on OS", e.g. "Chrome on Windows 10"
func ClientSummary(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		if name == "" {
			return "bot"
		}
		return name + " (bot)"
	}
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser == "" && os == "":
		return "unknown"
	case os == "":
		return browser
	case browser == "":
		return os
	}
	return fmt.Sprintf("%s on %s", browser, os)
}
