package payroll

import (
	"errors"
	"math"
)

// bracket is one step of a progressive table. Rate applies to the slice of
// the base between the previous bracket's Upper and this Upper.
type bracket struct {
	Upper float64
	Rate  float64
}

var inssTable = []bracket{
	{Upper: 1412.00, Rate: 0.075},
	{Upper: 2666.68, Rate: 0.09},
	{Upper: 4000.03, Rate: 0.12},
	{Upper: 7786.02, Rate: 0.14},
}

// irrfBracket uses the "rate minus deduction" form published by Receita Federal.
type irrfBracket struct {
	Upper     float64
	Rate      float64
	Deduction float64
}

var irrfTable = []irrfBracket{
	{Upper: 2259.20, Rate: 0, Deduction: 0},
	{Upper: 2826.65, Rate: 0.075, Deduction: 169.44},
	{Upper: 3751.05, Rate: 0.15, Deduction: 381.44},
	{Upper: 4664.68, Rate: 0.225, Deduction: 662.77},
	{Upper: math.Inf(1), Rate: 0.275, Deduction: 896.00},
}

const (
	DependentDeduction = 189.59
	FGTSRate           = 0.08
	EmployerINSSRate   = 0.20
)

var ErrInvalidSalary = errors.New("salary must be positive")

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

// INSS is the employee's progressive social security contribution.
// Salaries above the ceiling pay the ceiling contribution.
func INSS(gross float64) float64 {
	if gross <= 0 {
		return 0
	}

	var total, lower float64
	for _, b := range inssTable {
		if gross <= lower {
			break
		}
		slice := math.Min(gross, b.Upper) - lower
		total += slice * b.Rate
		lower = b.Upper
	}
	return round(total)
}

// IRRF is the monthly income tax withheld at source. The base is the gross
// salary minus INSS and the per-dependent deduction. Never negative.
func IRRF(gross, inss float64, dependents int) float64 {
	if dependents < 0 {
		dependents = 0
	}
	base := gross - inss - float64(dependents)*DependentDeduction
	if base <= 0 {
		return 0
	}

	for _, b := range irrfTable {
		if base <= b.Upper {
			return round(math.Max(0, base*b.Rate-b.Deduction))
		}
	}
	return 0
}

// FGTS is the employer's monthly deposit.
func FGTS(gross float64) float64 {
	if gross <= 0 {
		return 0
	}
	return round(gross * FGTSRate)
}

type Payslip struct {
	Gross        float64 `json:"gross"`
	Dependents   int     `json:"dependents"`
	INSS         float64 `json:"inss"`
	IRRF         float64 `json:"irrf"`
	FGTS         float64 `json:"fgts"`
	Net          float64 `json:"net"`
	EmployerINSS float64 `json:"employer_inss"`
	EmployerCost float64 `json:"employer_cost"`
}

// Compute produces the monthly payslip for a gross salary.
func Compute(gross float64, dependents int) (Payslip, error) {
	if gross <= 0 {
		return Payslip{}, ErrInvalidSalary
	}
	if dependents < 0 {
		return Payslip{}, errors.New("dependents cannot be negative")
	}

	inss := INSS(gross)
	irrf := IRRF(gross, inss, dependents)
	fgts := FGTS(gross)
	employerINSS := round(gross * EmployerINSSRate)

	return Payslip{
		Gross:        round(gross),
		Dependents:   dependents,
		INSS:         inss,
		IRRF:         irrf,
		FGTS:         fgts,
		Net:          round(gross - inss - irrf),
		EmployerINSS: employerINSS,
		EmployerCost: round(gross + fgts + employerINSS),
	}, nil
}
