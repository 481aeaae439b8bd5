// Package payroll implements the Brazilian payroll arithmetic used by the HR
// module: employee INSS and IRRF withholding, employer FGTS, monthly labor
// liability provisions and a severance projection for dismissal without cause.
//
// All functions are pure. Tables are the ones in force from May 2024; amounts
// are in reais and results are rounded to centavos.
package payroll
