package model

import "time"

type RequestLog struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RequestID         string    `gorm:"size:64;index" json:"request_id"`
	Method            string    `gorm:"size:16;not null" json:"method"`
	Endpoint          string    `gorm:"size:255;not null;index" json:"endpoint"`
	StatusCode        int       `json:"status_code"`
	ClientIP          string    `gorm:"size:64" json:"client_ip"`
	ExecutionMs       int64     `json:"execution_ms"`
	Timestamp         time.Time `gorm:"index" json:"timestamp"`
	ResponseTimestamp time.Time `json:"response_timestamp"`
}
