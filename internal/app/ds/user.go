package ds

// 5. Таблица пользователей админ-панели
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Login    string `gorm:"type:varchar(50);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	FullName string `gorm:"type:varchar(100)"`
	Email    string `gorm:"type:varchar(100)"`
	Role     int    `gorm:"type:int;default:0;not null"` // 0 - operator, 1 - admin
}
