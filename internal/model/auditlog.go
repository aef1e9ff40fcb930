package model

import "time"

// LogLevel 審計日誌等級
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid 驗證等級是否有效
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	}
	return false
}

// AuditLog 審計日誌，所有變更性操作都會產生一筆
type AuditLog struct {
	ID        int       `json:"id" db:"id"`
	Message   string    `json:"message" db:"message"`
	UserID    int       `json:"user_id" db:"user_id"`
	Level     LogLevel  `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
