package allotment

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"backend/internal/app/ds"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Тестам нужен реальный Postgres: блокировки строк и уникальные индексы
// не воспроизводятся на заглушках. Без доступной БД тесты пропускаются.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=password dbname=ipo_portal_test port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("skipping: test database not available: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		t.Skipf("skipping: test database ping failed: %v", err)
	}

	// Чистая схема на каждый запуск
	_ = db.Migrator().DropTable(&ds.IPOApplication{}, &ds.IPO{}, &ds.Candidate{}, &ds.Company{})
	require.NoError(t, db.AutoMigrate(&ds.Company{}, &ds.Candidate{}, &ds.IPO{}, &ds.IPOApplication{}))

	return db
}

var seq atomic.Uint64

func createCompany(t *testing.T, db *gorm.DB, name string) *ds.Company {
	t.Helper()
	n := seq.Add(1)
	company := &ds.Company{
		Name:     name,
		CIN:      fmt.Sprintf("CIN-%s-%d", name, n),
		Email:    fmt.Sprintf("%s-%d@corp.test", name, n),
		Password: "hash",
		Sector:   "Tech",
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

func createCandidate(t *testing.T, db *gorm.DB, name string) *ds.Candidate {
	t.Helper()
	n := seq.Add(1)
	candidate := &ds.Candidate{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@mail.test", name, n),
		Password: "hash",
	}
	require.NoError(t, db.Create(candidate).Error)
	return candidate
}

func createIPO(t *testing.T, db *gorm.DB, company *ds.Company, totalLots int) *ds.IPO {
	t.Helper()
	ipo := &ds.IPO{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		IssuePrice:  "90-100",
		LotSize:     10,
		TotalLots:   totalLots,
		OpenDate:    "2026-09-01",
		CloseDate:   "2026-09-05",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(ipo).Error)
	return ipo
}

func TestSubmitApplicationAccepted(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 100)

	res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 40)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, ds.StatusPending, res.Application.Status)
	assert.Equal(t, 40, res.RequestedLots)
	assert.Equal(t, 100, res.RemainingLots)
	assert.Nil(t, res.Application.RejectionReason)
}

func TestSubmitApplicationIPONotFound(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	candidate := createCandidate(t, db, "alice")

	_, err := engine.SubmitApplication(context.Background(), candidate.ID, 9999, 10)
	assert.ErrorIs(t, err, ErrIPONotFound)
}

func TestSubmitApplicationDuplicate(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 100)

	_, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 40)
	require.NoError(t, err)

	// повторная подача отклоняется и не пишет новую строку
	_, err = engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 5)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	var count int64
	require.NoError(t, db.Model(&ds.IPOApplication{}).
		Where("candidate_id = ? AND ipo_id = ?", candidate.ID, ipo.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitApplicationOverCapacityAutoRejected(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 10)

	res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 20)
	require.NoError(t, err)

	// авто-отказ пишет строку со статусом Rejected и причиной Capacity
	assert.False(t, res.Accepted)
	assert.Equal(t, ds.StatusRejected, res.Application.Status)
	assert.Equal(t, 20, res.RequestedLots)
	assert.Equal(t, 10, res.RemainingLots)
	require.NotNil(t, res.Application.RejectionReason)
	assert.Equal(t, ds.ReasonCapacity, *res.Application.RejectionReason)
}

func TestPendingLotsAreNotReserved(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	alice := createCandidate(t, db, "alice")
	bob := createCandidate(t, db, "bob")
	ipo := createIPO(t, db, company, 100)

	// Pending-лоты ёмкость не резервируют: учитываются только Approved
	resA, err := engine.SubmitApplication(ctx, alice.ID, ipo.ID, 40)
	require.NoError(t, err)
	assert.True(t, resA.Accepted)

	resB, err := engine.SubmitApplication(ctx, bob.ID, ipo.ID, 70)
	require.NoError(t, err)
	assert.True(t, resB.Accepted)
	assert.Equal(t, 100, resB.RemainingLots)
}

func TestDecideApplicationApprove(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 100)

	res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 40)
	require.NoError(t, err)

	app, err := engine.DecideApplication(ctx, company.ID, res.Application.ID, ds.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusApproved, app.Status)

	remaining, err := engine.RemainingLots(ctx, ipo.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, remaining)

	report, err := engine.Report(ctx, ipo.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, report.ApprovedLots)
}

func TestDecideApplicationReject(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 100)

	res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 40)
	require.NoError(t, err)

	app, err := engine.DecideApplication(ctx, company.ID, res.Application.ID, ds.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusRejected, app.Status)
	require.NotNil(t, app.RejectionReason)
	assert.Equal(t, ds.ReasonCompanyDecision, *app.RejectionReason)

	// отклонение ёмкость не расходует
	remaining, err := engine.RemainingLots(ctx, ipo.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, remaining)
}

func TestDecideApplicationErrors(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	other := createCompany(t, db, "globex")
	candidate := createCandidate(t, db, "alice")
	ipo := createIPO(t, db, company, 100)

	res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, 40)
	require.NoError(t, err)

	_, err = engine.DecideApplication(ctx, company.ID, 9999, ds.StatusApproved)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	// чужая компания: внутренняя ошибка отличается от NotFound
	_, err = engine.DecideApplication(ctx, other.ID, res.Application.ID, ds.StatusApproved)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = engine.DecideApplication(ctx, company.ID, res.Application.ID, "Maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = engine.DecideApplication(ctx, company.ID, res.Application.ID, ds.StatusApproved)
	require.NoError(t, err)

	// решение терминально
	_, err = engine.DecideApplication(ctx, company.ID, res.Application.ID, ds.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestApproveRechecksCapacity(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")
	alice := createCandidate(t, db, "alice")
	bob := createCandidate(t, db, "bob")
	ipo := createIPO(t, db, company, 100)

	resA, err := engine.SubmitApplication(ctx, alice.ID, ipo.ID, 60)
	require.NoError(t, err)
	resB, err := engine.SubmitApplication(ctx, bob.ID, ipo.ID, 60)
	require.NoError(t, err)

	_, err = engine.DecideApplication(ctx, company.ID, resA.Application.ID, ds.StatusApproved)
	require.NoError(t, err)

	// одобрение второй заявки переполнило бы total_lots
	_, err = engine.DecideApplication(ctx, company.ID, resB.Application.ID, ds.StatusApproved)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	report, err := engine.Report(ctx, ipo.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, report.ApprovedLots)
	assert.LessOrEqual(t, report.ApprovedLots, ipo.TotalLots)
}

func TestReportEmptyIPO(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	company := createCompany(t, db, "acme")
	ipo := createIPO(t, db, company, 100)

	report, err := engine.Report(context.Background(), ipo.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalApplications)
	assert.Equal(t, 0, report.TotalLotsRequested)
	assert.Equal(t, 0, report.ApprovedLots)
	assert.Equal(t, 0, report.RejectedLots)
	assert.Equal(t, 0, report.PendingLots)
}

// Свойство: какова бы ни была последовательность заявок и одобрений,
// сумма одобренных лотов никогда не превышает total_lots.
func TestApprovedLotsNeverExceedCapacityProperty(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	company := createCompany(t, db, "acme")

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("sum of approved lots <= total lots", prop.ForAll(
		func(totalLots int, requests []int) bool {
			ipo := createIPO(t, db, company, totalLots)

			var pending []uint
			for _, lots := range requests {
				candidate := createCandidate(t, db, "prop")
				res, err := engine.SubmitApplication(ctx, candidate.ID, ipo.ID, lots)
				if err != nil {
					return false
				}
				if res.Accepted {
					pending = append(pending, res.Application.ID)
				}
			}

			for _, id := range pending {
				_, err := engine.DecideApplication(ctx, company.ID, id, ds.StatusApproved)
				if err != nil && err != ErrCapacityExceeded {
					return false
				}
			}

			report, err := engine.Report(ctx, ipo.ID)
			if err != nil {
				return false
			}
			return report.ApprovedLots <= totalLots
		},
		gen.IntRange(1, 200),
		gen.SliceOfN(8, gen.IntRange(1, 100)),
	))

	properties.TestingRun(t)
}
