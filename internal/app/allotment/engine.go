package allotment

import (
	"context"
	"errors"
	"time"

	"backend/internal/app/ds"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine распределяет лоты IPO: принимает заявки кандидатов против оставшейся
// ёмкости размещения и проводит решения компании по ним. Вся последовательность
// "проверка дубликата - подсчёт остатка - вставка" выполняется в одной транзакции
// с блокировкой строки IPO, чтобы параллельные заявки не обгоняли друг друга.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Результат подачи заявки.
type SubmitResult struct {
	Application   ds.IPOApplication
	Accepted      bool // true - заявка принята в статусе Pending
	RequestedLots int
	RemainingLots int // остаток на момент проверки, для отображения при авто-отказе
}

// Decide решает судьбу новой заявки: запрос сверх остатка отклоняется сразу,
// иначе заявка ждёт решения компании.
func Decide(requested, remaining int) string {
	if requested > remaining {
		return ds.StatusRejected
	}
	return ds.StatusPending
}

// SubmitApplication подаёт заявку кандидата на размещение.
// Дубликат проверяется раньше ёмкости: повторная попытка отклоняется,
// не раскрывая информацию об остатке и не записывая новую строку.
func (e *Engine) SubmitApplication(ctx context.Context, candidateID, ipoID uint, lots int) (*SubmitResult, error) {
	if lots <= 0 {
		return nil, ErrInvalidLots
	}

	var res SubmitResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ipo ds.IPO
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ipo, ipoID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIPONotFound
			}
			return err
		}

		var count int64
		err = tx.Model(&ds.IPOApplication{}).
			Where("candidate_id = ? AND ipo_id = ?", candidateID, ipoID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyApplied
		}

		approved, err := approvedLots(tx, ipoID)
		if err != nil {
			return err
		}
		remaining := ipo.TotalLots - approved

		res.RequestedLots = lots
		res.RemainingLots = remaining

		app := ds.IPOApplication{
			CandidateID: candidateID,
			IPOID:       ipoID,
			LotsApplied: lots,
			Status:      Decide(lots, remaining),
			CreatedAt:   time.Now(),
		}
		if app.Status == ds.StatusRejected {
			reason := ds.ReasonCapacity
			app.RejectionReason = &reason
		} else {
			res.Accepted = true
		}

		if err := tx.Create(&app).Error; err != nil {
			// страховка уникального индекса (candidate_id, ipo_id) от гонки
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return err
		}

		res.Application = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"candidate_id": candidateID,
		"ipo_id":       ipoID,
		"lots":         lots,
		"status":       res.Application.Status,
	}).Info("application submitted")

	return &res, nil
}

// DecideApplication проводит решение компании по заявке со статусом Pending.
// Перед одобрением остаток пересчитывается в той же транзакции: одобрение,
// переполняющее total_lots, отклоняется с ErrCapacityExceeded.
func (e *Engine) DecideApplication(ctx context.Context, companyID, applicationID uint, decision string) (*ds.IPOApplication, error) {
	if decision != ds.StatusApproved && decision != ds.StatusRejected {
		return nil, ErrInvalidDecision
	}

	var app ds.IPOApplication
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&app, applicationID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		var ipo ds.IPO
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ipo, app.IPOID).Error
		if err != nil {
			return err
		}

		if ipo.CompanyID != companyID {
			return ErrNotAuthorized
		}
		if app.Status != ds.StatusPending {
			return ErrAlreadyDecided
		}

		updates := map[string]interface{}{"status": decision}
		if decision == ds.StatusApproved {
			// строка сама ещё Pending, поэтому её лоты в сумму не входят
			approved, err := approvedLots(tx, app.IPOID)
			if err != nil {
				return err
			}
			if app.LotsApplied > ipo.TotalLots-approved {
				return ErrCapacityExceeded
			}
		} else {
			updates["rejection_reason"] = ds.ReasonCompanyDecision
		}

		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return err
		}

		app.Status = decision
		if decision == ds.StatusRejected {
			reason := ds.ReasonCompanyDecision
			app.RejectionReason = &reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"application_id": applicationID,
		"company_id":     companyID,
		"decision":       decision,
	}).Info("application decided")

	return &app, nil
}

// RemainingLots возвращает остаток ёмкости размещения: total_lots минус
// сумма лотов по одобренным заявкам.
func (e *Engine) RemainingLots(ctx context.Context, ipoID uint) (int, error) {
	var ipo ds.IPO
	err := e.db.WithContext(ctx).First(&ipo, ipoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrIPONotFound
		}
		return 0, err
	}

	approved, err := approvedLots(e.db.WithContext(ctx), ipoID)
	if err != nil {
		return 0, err
	}

	return ipo.TotalLots - approved, nil
}

func approvedLots(tx *gorm.DB, ipoID uint) (int, error) {
	var approved int
	err := tx.Model(&ds.IPOApplication{}).
		Select("COALESCE(SUM(lots_applied), 0)").
		Where("ipo_id = ? AND status = ?", ipoID, ds.StatusApproved).
		Scan(&approved).Error
	return approved, err
}
