// Package payroll derives worker earnings from the service log.
// Nothing here is stored; figures are recomputed from services on demand.
package payroll

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/pkg/money"
)

// Earnings are a worker's derived pay figures in cents.
type Earnings struct {
	WorkerID             uuid.UUID `json:"worker_id"`
	TotalEarnings        int64     `json:"total_earnings"`
	CurrentMonthEarnings int64     `json:"current_month_earnings"`
	ServicesPerformed    int       `json:"services_performed"`
}

// DailyEarnings buckets one calendar day of a worker's completed services.
type DailyEarnings struct {
	Date         time.Time `json:"date"`
	Commission   int64     `json:"commission"`
	ServiceCount int       `json:"service_count"`
}

// EffectiveRate is the service override when set, else the worker default.
func EffectiveRate(s *entity.Service, w *entity.Worker) float64 {
	if s.CommissionRate != nil {
		return *s.CommissionRate
	}
	return w.CommissionRate
}

// Commission is price * rate / 100, rounded to the nearest cent.
func Commission(price int64, rate float64) int64 {
	return money.Percent(price, rate)
}

// ServiceCommission is what w earns for s. Salaried workers earn no
// per-service commission.
func ServiceCommission(s *entity.Service, w *entity.Worker) int64 {
	if !w.IsCommissioned() {
		return 0
	}
	return Commission(s.Price, EffectiveRate(s, w))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// counts reports whether s is a completed service performed by w
func counts(s *entity.Service, w *entity.Worker) bool {
	return s.WorkerID == w.ID && s.IsCompleted()
}

// Compute derives w's earnings from services as of now. The current month
// is the calendar month of now in now's location.
func Compute(w *entity.Worker, services []entity.Service, now time.Time) Earnings {
	e := Earnings{WorkerID: w.ID}

	for i := range services {
		s := &services[i]
		if !counts(s, w) {
			continue
		}
		e.ServicesPerformed++
		if !w.IsCommissioned() {
			continue
		}
		c := ServiceCommission(s, w)
		e.TotalEarnings += c
		if sameMonth(s.PerformedAt().In(now.Location()), now) {
			e.CurrentMonthEarnings += c
		}
	}

	if !w.IsCommissioned() {
		e.TotalEarnings = w.Salary
		e.CurrentMonthEarnings = w.Salary
	}
	return e
}

// ComputeRoster computes earnings for every worker from one service scan,
// preserving the order of workers.
func ComputeRoster(workers []entity.Worker, services []entity.Service, now time.Time) []Earnings {
	byWorker := make(map[uuid.UUID][]entity.Service, len(workers))
	for _, s := range services {
		byWorker[s.WorkerID] = append(byWorker[s.WorkerID], s)
	}

	out := make([]Earnings, len(workers))
	for i := range workers {
		out[i] = Compute(&workers[i], byWorker[workers[i].ID], now)
	}
	return out
}

// MonthlyPayroll sums current-month earnings across a roster
func MonthlyPayroll(roster []Earnings) int64 {
	var total int64
	for _, e := range roster {
		total += e.CurrentMonthEarnings
	}
	return total
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GroupDaily buckets w's completed services by calendar day in loc,
// newest day first.
func GroupDaily(w *entity.Worker, services []entity.Service, loc *time.Location) []DailyEarnings {
	buckets := make(map[time.Time]*DailyEarnings)
	for i := range services {
		s := &services[i]
		if !counts(s, w) {
			continue
		}
		day := startOfDay(s.PerformedAt(), loc)
		b, ok := buckets[day]
		if !ok {
			b = &DailyEarnings{Date: day}
			buckets[day] = b
		}
		b.Commission += ServiceCommission(s, w)
		b.ServiceCount++
	}

	out := make([]DailyEarnings, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// LastNDays keeps the buckets that fall within the n calendar days ending
// on now's day. daily must already be grouped in now's location.
func LastNDays(daily []DailyEarnings, n int, now time.Time) []DailyEarnings {
	if n <= 0 {
		return []DailyEarnings{}
	}
	cutoff := startOfDay(now, now.Location()).AddDate(0, 0, -(n - 1))

	out := make([]DailyEarnings, 0, len(daily))
	for _, d := range daily {
		if !d.Date.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out
}
