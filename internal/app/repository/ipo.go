package repository

import (
	"backend/internal/app/ds"
)

// Методы для IPO-размещений

// Строка витрины IPO: размещение плюс сумма одобренных лотов.
type IPOListRow struct {
	ID           uint    `json:"id"`
	CompanyID    uint    `json:"company_id"`
	CompanyName  string  `json:"company_name"`
	IssuePrice   string  `json:"issue_price"`
	LotSize      int     `json:"lot_size"`
	TotalLots    int     `json:"total_lots"`
	OpenDate     string  `json:"open_date"`
	CloseDate    string  `json:"close_date"`
	ApprovedLots int     `json:"approved_lots"`
	Prospectus   *string `json:"prospectus,omitempty"`
}

const ipoListSelect = `
SELECT i.id,
       i.company_id,
       i.company_name,
       i.issue_price,
       i.lot_size,
       i.total_lots,
       i.open_date,
       i.close_date,
       i.prospectus_file AS prospectus,
       COALESCE(SUM(CASE WHEN a.status = 'Approved' THEN a.lots_applied ELSE 0 END), 0) AS approved_lots
FROM ipos i
LEFT JOIN ipo_applications a ON a.ipo_id = i.id
`

// GetOpenIPOs возвращает все размещения с суммой одобренных лотов, новые первыми.
func (r *Repository) GetOpenIPOs() ([]IPOListRow, error) {
	rows := make([]IPOListRow, 0)
	err := r.db.Raw(ipoListSelect + `GROUP BY i.id ORDER BY i.id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetIPOsByCompany возвращает размещения одной компании, новые первыми.
func (r *Repository) GetIPOsByCompany(companyID uint) ([]IPOListRow, error) {
	rows := make([]IPOListRow, 0)
	err := r.db.Raw(ipoListSelect+`WHERE i.company_id = ? GROUP BY i.id ORDER BY i.id DESC`, companyID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CreateIPO(ipo *ds.IPO) error {
	return r.db.Create(ipo).Error
}

func (r *Repository) GetIPOByID(id uint) (*ds.IPO, error) {
	var ipo ds.IPO
	err := r.db.First(&ipo, id).Error
	if err != nil {
		return nil, err
	}
	return &ipo, nil
}

// SetProspectusFile сохраняет имя загруженного в MinIO объекта проспекта.
func (r *Repository) SetProspectusFile(ipoID uint, filename string) error {
	return r.db.Model(&ds.IPO{}).Where("id = ?", ipoID).
		Update("prospectus_file", filename).Error
}
