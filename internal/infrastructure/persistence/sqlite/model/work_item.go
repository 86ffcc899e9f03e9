package model

type WorkItem struct {
	ID        string  `gorm:"column:id;type:text;primaryKey"`
	UserKey   string  `gorm:"column:user_key;type:text;primaryKey"`
	ItemKind  string  `gorm:"column:item_kind;type:text;not null"`
	Priority  int     `gorm:"column:priority;not null"`
	Notes     *string `gorm:"column:notes;type:text"`
	Hidden    bool    `gorm:"column:hidden;not null;default:0"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string  `gorm:"column:updated_at;type:text;not null"`
}

func (WorkItem) TableName() string {
	return "work_items"
}
