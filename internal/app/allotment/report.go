package allotment

import (
	"context"
	"errors"

	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Сводка по заявкам одного размещения. Для IPO без заявок все поля нулевые.
type Report struct {
	TotalApplications  int `json:"total_applications"`
	TotalLotsRequested int `json:"total_lots_requested"`
	ApprovedLots       int `json:"approved_lots"`
	RejectedLots       int `json:"rejected_lots"`
	PendingLots        int `json:"pending_lots"`
}

// Report агрегирует заявки размещения по статусам. Чистое чтение.
func (e *Engine) Report(ctx context.Context, ipoID uint) (*Report, error) {
	var ipo ds.IPO
	err := e.db.WithContext(ctx).First(&ipo, ipoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIPONotFound
		}
		return nil, err
	}

	var report Report
	err = e.db.WithContext(ctx).Raw(`
SELECT COUNT(*)                                                                   AS total_applications,
       COALESCE(SUM(lots_applied), 0)                                            AS total_lots_requested,
       COALESCE(SUM(CASE WHEN status = 'Approved' THEN lots_applied ELSE 0 END), 0) AS approved_lots,
       COALESCE(SUM(CASE WHEN status = 'Rejected' THEN lots_applied ELSE 0 END), 0) AS rejected_lots,
       COALESCE(SUM(CASE WHEN status = 'Pending'  THEN lots_applied ELSE 0 END), 0) AS pending_lots
FROM ipo_applications
WHERE ipo_id = ?`, ipoID).Scan(&report).Error
	if err != nil {
		return nil, err
	}

	return &report, nil
}
