package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Bandas admitidas. Valores fuera de banda indican un error de captura aguas
// arriba (p.ej. 2.199 en lugar de 21.99), no un préstamo exótico.
const (
	MinAnnualRate = 5.0
	MaxAnnualRate = 35.0
	MinTermMonths = 24
	MaxTermMonths = 84

	// PaymentRounding es la convención de cotización: cuotas al múltiplo de $5 más cercano.
	PaymentRounding = 5.0
)

// ScheduleEntry es un periodo del cuadro de amortización, redondeado a céntimos.
type ScheduleEntry struct {
	Month     int             `json:"month" yaml:"month"`
	Payment   decimal.Decimal `json:"payment" yaml:"payment"`
	Principal decimal.Decimal `json:"principal" yaml:"principal"`
	Interest  decimal.Decimal `json:"interest" yaml:"interest"`
	Balance   decimal.Decimal `json:"balance" yaml:"balance"`
}

// PaymentResult es el resultado completo de Amortize.
type PaymentResult struct {
	MonthlyPayment float64         `json:"monthlyPayment" yaml:"monthly_payment"`
	TotalInterest  float64         `json:"totalInterest" yaml:"total_interest"`
	TotalPaid      float64         `json:"totalAmortized" yaml:"total_paid"`
	Schedule       []ScheduleEntry `json:"amortizationSchedule" yaml:"schedule"`
}

// Amortize calcula la cuota mensual con la fórmula de anualidad y genera el
// cuadro de amortización completo.
//
// Fórmula:
//
//	r = annualRate / 12 / 100
//	M = P × r(1+r)^n / ((1+r)^n − 1)    (r = 0 → M = P / n)
//
// La cuota se redondea a $5. El último periodo absorbe el saldo restante, de
// modo que la suma de principales es exactamente P y el saldo final es 0.
func Amortize(principal, annualRate float64, termMonths int) (PaymentResult, error) {
	if err := ValidatePaymentInputs(principal, annualRate, termMonths); err != nil {
		return PaymentResult{}, err
	}

	r := MonthlyRate(annualRate)
	payment := RoundToNearest(rawPayment(principal, r, termMonths), PaymentRounding)
	schedule := buildSchedule(principal, r, payment, termMonths)

	totalInterest := decimal.Zero
	for _, e := range schedule {
		totalInterest = totalInterest.Add(e.Interest)
	}

	return PaymentResult{
		MonthlyPayment: payment,
		TotalInterest:  totalInterest.Round(2).InexactFloat64(),
		TotalPaid:      payment * float64(termMonths),
		Schedule:       schedule,
	}, nil
}

// PaymentSummary devuelve solo cuota e interés total (sin exponer el cuadro).
func PaymentSummary(principal, annualRate float64, termMonths int) (payment, totalInterest float64, err error) {
	res, err := Amortize(principal, annualRate, termMonths)
	if err != nil {
		return 0, 0, err
	}
	return res.MonthlyPayment, res.TotalInterest, nil
}

// MaxAdvance es la inversa de la anualidad: el principal máximo que cubre una
// cuota dada. Se trunca al dólar para no sobrestimar la capacidad de adelanto.
//
//	P = PMT × (1 − (1+r)^−n) / r    (r = 0 → P = PMT × n)
func MaxAdvance(monthlyPayment, annualRate float64, termMonths int) float64 {
	if monthlyPayment <= 0 || termMonths <= 0 {
		return 0
	}
	r := MonthlyRate(annualRate)
	if r == 0 {
		return math.Floor(monthlyPayment * float64(termMonths))
	}
	return math.Floor(monthlyPayment * (1 - math.Pow(1+r, -float64(termMonths))) / r)
}

// MonthlyRate convierte una tasa anual en porcentaje a tasa mensual decimal.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / 12 / 100
}

// RoundToNearest redondea v al múltiplo de step más cercano.
func RoundToNearest(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// ValidatePaymentInputs comprueba principal, tasa y plazo. Devuelve todos los
// fallos unidos con errors.Join; cada uno es un *ValidationError.
func ValidatePaymentInputs(principal, annualRate float64, termMonths int) error {
	var errs []error

	switch {
	case math.IsNaN(principal) || math.IsInf(principal, 0):
		errs = append(errs, &ValidationError{Field: "principal", Value: principal, Message: "principal must be a valid number"})
	case principal <= 0:
		errs = append(errs, &ValidationError{Field: "principal", Value: principal, Min: bound(0), Message: "principal must be greater than zero"})
	}

	if err := ValidateRate(annualRate); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateTerm(termMonths); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateRate comprueba que la tasa anual esté dentro de [MinAnnualRate, MaxAnnualRate].
func ValidateRate(annualRate float64) error {
	switch {
	case math.IsNaN(annualRate):
		return &ValidationError{Field: "annualRate", Value: annualRate, Message: "annual rate must be a valid number"}
	case annualRate < MinAnnualRate:
		return &ValidationError{Field: "annualRate", Value: annualRate, Min: bound(MinAnnualRate), Message: "annual rate must be at least 5%"}
	case annualRate > MaxAnnualRate:
		return &ValidationError{Field: "annualRate", Value: annualRate, Max: bound(MaxAnnualRate), Message: "annual rate cannot exceed 35%"}
	}
	return nil
}

// ValidateTerm comprueba que el plazo esté dentro de [MinTermMonths, MaxTermMonths].
func ValidateTerm(termMonths int) error {
	switch {
	case termMonths < MinTermMonths:
		return &ValidationError{Field: "termMonths", Value: float64(termMonths), Min: bound(MinTermMonths), Message: "loan term must be at least 24 months"}
	case termMonths > MaxTermMonths:
		return &ValidationError{Field: "termMonths", Value: float64(termMonths), Max: bound(MaxTermMonths), Message: "loan term cannot exceed 84 months"}
	}
	return nil
}

func rawPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	factor := math.Pow(1+r, float64(n))
	return principal * r * factor / (factor - 1)
}

// buildSchedule genera el cuadro. Se trabaja en float64 para el saldo y se
// redondea cada entrada a céntimos con decimal, igual que al imprimir.
func buildSchedule(principal, r, payment float64, n int) []ScheduleEntry {
	schedule := make([]ScheduleEntry, 0, n)
	balance := principal

	for month := 1; month <= n; month++ {
		interest := balance * r
		principalPart := payment - interest
		pay := payment

		if month == n {
			// último periodo: cerrar el saldo exacto, la cuota absorbe la deriva
			principalPart = balance
			pay = principalPart + interest
		}
		balance -= principalPart
		if month == n {
			balance = 0
		}

		schedule = append(schedule, ScheduleEntry{
			Month:     month,
			Payment:   cents(pay),
			Principal: cents(principalPart),
			Interest:  cents(interest),
			Balance:   cents(balance),
		})
	}
	return schedule
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
