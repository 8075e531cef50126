package ds

import "time"

// Таблица IPO-размещений
type IPO struct {
	ID        uint      `gorm:"primaryKey"`
	CompanyID uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`

	// Поля по предметной области
	CompanyName string `gorm:"type:varchar(100);not null"` // денормализовано на момент создания
	IssuePrice  string `gorm:"type:varchar(50);not null"`  // строка для отображения, в расчётах не участвует
	LotSize     int    `gorm:"not null"`
	TotalLots   int    `gorm:"not null"` // ёмкость размещения в лотах
	OpenDate    string `gorm:"type:varchar(10);not null"`
	CloseDate   string `gorm:"type:varchar(10);not null"`

	// Имя объекта проспекта эмиссии в MinIO (может отсутствовать)
	ProspectusFile *string `gorm:"type:varchar(255)"`

	Company Company `gorm:"foreignKey:CompanyID"`
}

func (IPO) TableName() string {
	return "ipos"
}
