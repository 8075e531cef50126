package ds

import "time"

// Статусы заявки на IPO
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Причины отклонения заявки
const (
	ReasonCapacity        = "Capacity"        // авто-отклонение: запрошено больше оставшейся ёмкости
	ReasonCompanyDecision = "CompanyDecision" // решение компании
)

// Таблица заявок кандидатов на IPO.
// Уникальный индекс (candidate_id, ipo_id): не более одной заявки на пару кандидат-IPO.
type IPOApplication struct {
	ID          uint      `gorm:"primaryKey"`
	CandidateID uint      `gorm:"column:candidate_id;not null;index;uniqueIndex:idx_candidate_ipo"`
	IPOID       uint      `gorm:"column:ipo_id;not null;index;uniqueIndex:idx_candidate_ipo"`
	LotsApplied int       `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt   time.Time `gorm:"not null"`

	// Заполняется только для Rejected: Capacity либо CompanyDecision
	RejectionReason *string `gorm:"type:varchar(30)"`

	Candidate Candidate `gorm:"foreignKey:CandidateID"`
	IPO       IPO       `gorm:"foreignKey:IPOID"`
}

func (IPOApplication) TableName() string {
	return "ipo_applications"
}
