package ds

// Таблица компаний-эмитентов
type Company struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(100);not null"`
	CIN      string `gorm:"type:varchar(30);unique;not null"` // регистрационный номер компании
	Email    string `gorm:"type:varchar(100);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"` // bcrypt-хеш
	Sector   string `gorm:"type:varchar(50);not null"`
}
