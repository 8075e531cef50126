package repository

import (
	"time"
)

// Методы для заявок (читающая сторона; запись идёт через allotment.Engine)

// Заявка кандидата вместе с данными размещения.
type CandidateApplicationRow struct {
	ID              uint      `json:"id"`
	IPOID           uint      `json:"ipo_id"`
	CompanyName     string    `json:"company_name"`
	IssuePrice      string    `json:"issue_price"`
	LotSize         int       `json:"lot_size"`
	LotsApplied     int       `json:"lots_applied"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetCandidateApplications возвращает заявки кандидата, новые первыми.
func (r *Repository) GetCandidateApplications(candidateID uint) ([]CandidateApplicationRow, error) {
	rows := make([]CandidateApplicationRow, 0)
	err := r.db.Raw(`
SELECT a.id,
       a.ipo_id,
       i.company_name,
       i.issue_price,
       i.lot_size,
       a.lots_applied,
       a.status,
       a.rejection_reason,
       a.created_at
FROM ipo_applications a
JOIN ipos i ON a.ipo_id = i.id
WHERE a.candidate_id = ?
ORDER BY a.id DESC`, candidateID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Заявка на размещение вместе с данными кандидата (для владеющей компании).
type IPOApplicationRow struct {
	ID              uint      `json:"id"`
	CandidateName   string    `json:"candidate_name"`
	CandidateEmail  string    `json:"candidate_email"`
	LotsApplied     int       `json:"lots_applied"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetIPOApplications возвращает все заявки одного размещения, новые первыми.
// Проверка владения размещением остаётся на вызывающей стороне.
func (r *Repository) GetIPOApplications(ipoID uint) ([]IPOApplicationRow, error) {
	rows := make([]IPOApplicationRow, 0)
	err := r.db.Raw(`
SELECT a.id,
       c.name  AS candidate_name,
       c.email AS candidate_email,
       a.lots_applied,
       a.status,
       a.rejection_reason,
       a.created_at
FROM ipo_applications a
JOIN candidates c ON a.candidate_id = c.id
WHERE a.ipo_id = ?
ORDER BY a.id DESC`, ipoID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
