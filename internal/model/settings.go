package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONMap 自由结构的 JSON 对象字段
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, m)
}

// UserSettings 用户偏好和通知设置，结构不做强校验
type UserSettings struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Preferences   JSONMap   `gorm:"type:json" json:"preferences"`
	Notifications JSONMap   `gorm:"type:json" json:"notifications"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
