package models

type Attachment struct {
	Base
	TaskID string `gorm:"type:varchar(36);not null;index" json:"task_id"`
	File   string `gorm:"type:varchar(255)" json:"file"`
	Link   string `gorm:"type:varchar(255)" json:"link"`
	Tag    string `gorm:"type:varchar(50)" json:"tag"`
	Info   string `gorm:"type:varchar(255)" json:"info"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
