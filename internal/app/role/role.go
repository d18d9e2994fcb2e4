package role

// Role определяет уровень доступа пользователя админ-панели
type Role int

const (
	Operator Role = iota // оператор: управление каталогом и вопросами
	Admin                // администратор: всё + управление пользователями
)

func (r Role) String() string {
	switch r {
	case Operator:
		return "operator"
	case Admin:
		return "admin"
	}
	return "unknown"
}
