package role

// Role разделяет два вида участников портала: инвестор (кандидат) и компания-эмитент.
type Role int

const (
	Candidate Role = iota // подаёт заявки на IPO
	Company               // размещает IPO и распределяет лоты
)

func (r Role) String() string {
	switch r {
	case Candidate:
		return "candidate"
	case Company:
		return "company"
	default:
		return "unknown"
	}
}

// Parse восстанавливает роль из строкового представления (например, из claims токена).
func Parse(s string) (Role, bool) {
	switch s {
	case "candidate":
		return Candidate, true
	case "company":
		return Company, true
	default:
		return Candidate, false
	}
}
