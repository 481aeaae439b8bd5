package payroll

// Liabilities are the amounts an employer provisions every month for one
// employee so that the 13th salary and vacations are funded when due.
type Liabilities struct {
	Thirteenth       float64 `json:"thirteenth"`
	Vacation         float64 `json:"vacation"`
	VacationBonus    float64 `json:"vacation_bonus"`
	FGTSOnProvisions float64 `json:"fgts_on_provisions"`
	Total            float64 `json:"total"`
}

func MonthlyLiabilities(salary float64) (Liabilities, error) {
	if salary <= 0 {
		return Liabilities{}, ErrInvalidSalary
	}

	thirteenth := salary / 12
	vacation := salary / 12
	bonus := vacation / 3
	fgts := (thirteenth + vacation + bonus) * FGTSRate

	return Liabilities{
		Thirteenth:       round(thirteenth),
		Vacation:         round(vacation),
		VacationBonus:    round(bonus),
		FGTSOnProvisions: round(fgts),
		Total:            round(thirteenth + vacation + bonus + fgts),
	}, nil
}
