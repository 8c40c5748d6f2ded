package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func commissionWorker(rate float64) *entity.Worker {
	return &entity.Worker{ID: uuid.New(), Name: "Amina", PaymentType: enum.PaymentTypeCommission, CommissionRate: rate}
}

func completed(w *entity.Worker, price int64, at time.Time) entity.Service {
	return entity.Service{
		ID:          uuid.New(),
		Name:        "Braids",
		Price:       price,
		WorkerID:    w.ID,
		Status:      enum.ServiceStatusCompleted,
		CompletedAt: &at,
	}
}

func rate(r float64) *float64 { return &r }

func TestCommissionWorkerCurrentMonth(t *testing.T) {
	w := commissionWorker(10)
	services := []entity.Service{
		completed(w, 10000, now.AddDate(0, 0, -3)),
		completed(w, 20000, now.AddDate(0, 0, -1)),
	}

	e := Compute(w, services, now)

	assert.Equal(t, int64(3000), e.CurrentMonthEarnings)
	assert.Equal(t, int64(3000), e.TotalEarnings)
	assert.Equal(t, 2, e.ServicesPerformed)
}

func TestServiceOverrideRate(t *testing.T) {
	w := commissionWorker(10)
	s := completed(w, 10000, now)
	s.CommissionRate = rate(15)

	assert.Equal(t, 15.0, EffectiveRate(&s, w))
	assert.Equal(t, int64(1500), ServiceCommission(&s, w))

	plain := completed(w, 10000, now)
	assert.Equal(t, int64(1000), ServiceCommission(&plain, w))
}

func TestCurrentMonthUsesCalendarMonth(t *testing.T) {
	w := commissionWorker(10)
	lastMonth := time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC)
	firstOfMonth := time.Date(2026, 5, 1, 0, 30, 0, 0, time.UTC)
	lastYear := time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)

	e := Compute(w, []entity.Service{
		completed(w, 10000, lastMonth),
		completed(w, 20000, firstOfMonth),
		completed(w, 40000, lastYear),
	}, now)

	assert.Equal(t, int64(2000), e.CurrentMonthEarnings)
	assert.Equal(t, int64(7000), e.TotalEarnings)
	assert.Equal(t, 3, e.ServicesPerformed)
}

func TestOnlyCompletedServicesCount(t *testing.T) {
	w := commissionWorker(20)
	pending := completed(w, 50000, now)
	pending.Status = enum.ServiceStatusPending
	cancelled := completed(w, 50000, now)
	cancelled.Status = enum.ServiceStatusCancelled
	other := completed(commissionWorker(20), 50000, now)

	e := Compute(w, []entity.Service{pending, cancelled, other, completed(w, 1000, now)}, now)
	assert.Equal(t, 1, e.ServicesPerformed)
	assert.Equal(t, int64(200), e.TotalEarnings)
}

func TestMonthlyWorkerEarnsSalary(t *testing.T) {
	w := &entity.Worker{ID: uuid.New(), PaymentType: enum.PaymentTypeMonthly, Salary: 4500000, CommissionRate: 50}

	none := Compute(w, nil, now)
	assert.Equal(t, int64(4500000), none.CurrentMonthEarnings)
	assert.Equal(t, int64(4500000), none.TotalEarnings)

	busy := Compute(w, []entity.Service{
		completed(w, 90000, now),
		completed(w, 90000, now.AddDate(0, -2, 0)),
	}, now)
	assert.Equal(t, int64(4500000), busy.CurrentMonthEarnings)
	assert.Equal(t, 2, busy.ServicesPerformed)
}

func TestCommissionRounding(t *testing.T) {
	assert.Equal(t, int64(125), Commission(833, 15))
	assert.Equal(t, int64(0), Commission(0, 25))
}

func TestGroupDailyNewestFirst(t *testing.T) {
	w := commissionWorker(10)
	day1 := time.Date(2026, 5, 18, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 19, 17, 0, 0, 0, time.UTC)

	daily := GroupDaily(w, []entity.Service{
		completed(w, 10000, day1),
		completed(w, 5000, day2),
		completed(w, 5000, day2.Add(time.Hour)),
	}, time.UTC)

	require.Len(t, daily, 2)
	assert.Equal(t, time.Date(2026, 5, 19, 0, 0, 0, 0, time.UTC), daily[0].Date)
	assert.Equal(t, int64(1000), daily[0].Commission)
	assert.Equal(t, 2, daily[0].ServiceCount)
	assert.Equal(t, int64(1000), daily[1].Commission)
	assert.Equal(t, 1, daily[1].ServiceCount)
}

func TestGroupDailyRespectsLocation(t *testing.T) {
	w := commissionWorker(10)
	nairobi := time.FixedZone("EAT", 3*60*60)
	lateUTC := time.Date(2026, 5, 18, 22, 30, 0, 0, time.UTC)

	daily := GroupDaily(w, []entity.Service{completed(w, 1000, lateUTC)}, nairobi)
	require.Len(t, daily, 1)
	assert.Equal(t, 19, daily[0].Date.Day())
}

func TestLastNDays(t *testing.T) {
	w := commissionWorker(10)
	var services []entity.Service
	for i := 0; i < 10; i++ {
		services = append(services, completed(w, 1000, now.AddDate(0, 0, -i)))
	}

	daily := LastNDays(GroupDaily(w, services, time.UTC), 7, now)
	require.Len(t, daily, 7)
	assert.Equal(t, 14, daily[len(daily)-1].Date.Day())
	assert.Empty(t, LastNDays(daily, 0, now))
}

func TestComputeRoster(t *testing.T) {
	a, b := commissionWorker(10), commissionWorker(20)
	roster := ComputeRoster([]entity.Worker{*a, *b}, []entity.Service{
		completed(a, 10000, now),
		completed(b, 10000, now),
		completed(b, 10000, now),
	}, now)

	require.Len(t, roster, 2)
	assert.Equal(t, a.ID, roster[0].WorkerID)
	assert.Equal(t, int64(1000), roster[0].CurrentMonthEarnings)
	assert.Equal(t, int64(4000), roster[1].CurrentMonthEarnings)
	assert.Equal(t, int64(5000), MonthlyPayroll(roster))
}
