package model

type Session struct {
	Token       string `gorm:"column:token;type:text;primaryKey"`
	UserKey     string `gorm:"column:user_key;type:text;not null;index"`
	Username    string `gorm:"column:username;type:text;not null"`
	AccessToken string `gorm:"column:access_token;type:text;not null"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
