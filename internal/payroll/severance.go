package payroll

import (
	"errors"
	"time"
)

const (
	baseNoticeDays    = 30
	noticeDaysPerYear = 3
	maxNoticeDays     = 90
	fgtsFineRate      = 0.40
	// A month counts towards 13th and vacation proportions from this many days worked.
	minDaysForMonth = 15
)

// SeveranceInput describes a dismissal without cause.
type SeveranceInput struct {
	Salary       float64
	HiredAt      time.Time
	TerminatedAt time.Time
	// FGTSBalance is the worker's FGTS account balance. When zero it is
	// estimated as monthly deposits over the months served.
	FGTSBalance float64
	// PendingVacationPeriods counts complete vacation periods never taken.
	PendingVacationPeriods int
}

type Severance struct {
	YearsOfService   int     `json:"years_of_service"`
	NoticeDays       int     `json:"notice_days"`
	SalaryBalance    float64 `json:"salary_balance"`
	Notice           float64 `json:"notice"`
	Thirteenth       float64 `json:"thirteenth"`
	ThirteenthMonths int     `json:"thirteenth_months"`
	Vacation         float64 `json:"vacation"`
	VacationMonths   int     `json:"vacation_months"`
	VacationBonus    float64 `json:"vacation_bonus"`
	ExpiredVacation  float64 `json:"expired_vacation"`
	FGTSBalance      float64 `json:"fgts_balance"`
	FGTSFine         float64 `json:"fgts_fine"`
	Total            float64 `json:"total"`
}

// ProjectSeverance estimates the amounts due on dismissal without cause.
// The notice period is indemnified and not projected onto the 13th and
// vacation proportions.
func ProjectSeverance(in SeveranceInput) (Severance, error) {
	if in.Salary <= 0 {
		return Severance{}, ErrInvalidSalary
	}
	if in.TerminatedAt.Before(in.HiredAt) {
		return Severance{}, errors.New("termination date precedes hire date")
	}
	if in.PendingVacationPeriods < 0 {
		return Severance{}, errors.New("pending vacation periods cannot be negative")
	}

	daily := in.Salary / 30
	monthsServed, _ := monthsBetween(in.HiredAt, in.TerminatedAt)
	years := monthsServed / 12

	noticeDays := min(baseNoticeDays+noticeDaysPerYear*years, maxNoticeDays)

	daysInLastMonth := min(in.TerminatedAt.Day(), 30)
	if sameMonth(in.HiredAt, in.TerminatedAt) {
		daysInLastMonth = min(in.TerminatedAt.Day()-in.HiredAt.Day()+1, 30)
	}

	thirteenthMonths := thirteenthMonths(in.HiredAt, in.TerminatedAt)

	lastAnniversary := in.HiredAt.AddDate(years, 0, 0)
	vacationMonths, rest := monthsBetween(lastAnniversary, in.TerminatedAt)
	if rest >= minDaysForMonth {
		vacationMonths++
	}
	vacationMonths = min(vacationMonths, 12)

	vacation := in.Salary / 12 * float64(vacationMonths)
	expired := in.Salary * float64(in.PendingVacationPeriods) * 4 / 3

	fgtsBalance := in.FGTSBalance
	if fgtsBalance <= 0 {
		fgtsBalance = in.Salary * FGTSRate * float64(monthsServed)
	}

	s := Severance{
		YearsOfService:   years,
		NoticeDays:       noticeDays,
		SalaryBalance:    round(daily * float64(daysInLastMonth)),
		Notice:           round(daily * float64(noticeDays)),
		Thirteenth:       round(in.Salary / 12 * float64(thirteenthMonths)),
		ThirteenthMonths: thirteenthMonths,
		Vacation:         round(vacation),
		VacationMonths:   vacationMonths,
		VacationBonus:    round(vacation / 3),
		ExpiredVacation:  round(expired),
		FGTSBalance:      round(fgtsBalance),
		FGTSFine:         round(fgtsBalance * fgtsFineRate),
	}
	s.Total = round(s.SalaryBalance + s.Notice + s.Thirteenth + s.Vacation +
		s.VacationBonus + s.ExpiredVacation + s.FGTSFine)
	return s, nil
}

// monthsBetween returns the whole months from a to b and the leftover days.
func monthsBetween(a, b time.Time) (months, days int) {
	months = (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0, 0
	}
	anchor := a.AddDate(0, months, 0)
	days = int(b.Sub(anchor).Hours() / 24)
	return months, days
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// thirteenthMonths counts the months of the termination year in which at
// least minDaysForMonth days were worked.
func thirteenthMonths(hired, terminated time.Time) int {
	count := 0
	for m := time.January; m <= terminated.Month(); m++ {
		first := time.Date(terminated.Year(), m, 1, 0, 0, 0, 0, terminated.Location())
		last := first.AddDate(0, 1, -1)

		start, end := first, last
		if hired.After(start) {
			start = hired
		}
		if terminated.Before(end) {
			end = terminated
		}
		if end.Before(start) {
			continue
		}
		worked := end.YearDay() - start.YearDay() + 1
		if worked >= minDaysForMonth {
			count++
		}
	}
	return count
}
