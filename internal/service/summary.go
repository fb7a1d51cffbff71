package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
)

// BillingSummary is the derived read model for a set of billing
// records. It is computed by pure functions: no I/O, deterministic,
// and independent of input ordering.
type BillingSummary struct {
	TotalPaid     decimal.Decimal
	Outstanding   decimal.Decimal
	OverdueCount  int
	CurrentPeriod *domain.BillingRecord
	MonthlyRollup []MonthlyTotal
}

// InvoiceSummary is the derived read model for a set of invoices.
type InvoiceSummary struct {
	TotalPaid    decimal.Decimal
	Outstanding  decimal.Decimal
	OverdueCount int
}

// MonthlyTotal is one month's paid billing total for charting.
type MonthlyTotal struct {
	Label string
	Total decimal.Decimal
}

// SummarizeBilling folds billing records into the summary figures.
// Total paid sums paid records; outstanding sums pending and overdue;
// the current period is the record whose interval contains now,
// inclusive on both ends.
func SummarizeBilling(records []domain.BillingRecord, now time.Time) BillingSummary {
	summary := BillingSummary{
		TotalPaid:     decimal.Zero,
		Outstanding:   decimal.Zero,
		MonthlyRollup: MonthlyBillingRollup(records, now),
	}
	for i := range records {
		record := &records[i]
		switch record.Status {
		case domain.BillingStatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(record.Amount)
		case domain.BillingStatusPending:
			summary.Outstanding = summary.Outstanding.Add(record.Amount)
		case domain.BillingStatusOverdue:
			summary.Outstanding = summary.Outstanding.Add(record.Amount)
			summary.OverdueCount++
		}
		// Periods are non-overlapping by construction; the start-date
		// tiebreak keeps the result order-independent regardless.
		if record.ContainsDate(now) {
			if summary.CurrentPeriod == nil || record.PeriodStart.After(summary.CurrentPeriod.PeriodStart) {
				current := *record
				summary.CurrentPeriod = &current
			}
		}
	}
	return summary
}

// SummarizeInvoices folds invoices into totals. Outstanding covers
// sent and overdue invoices; drafts and cancellations count nowhere.
func SummarizeInvoices(invoices []domain.Invoice) InvoiceSummary {
	summary := InvoiceSummary{
		TotalPaid:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for i := range invoices {
		invoice := &invoices[i]
		switch invoice.Status {
		case domain.InvoiceStatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(invoice.Amount)
		case domain.InvoiceStatusSent:
			summary.Outstanding = summary.Outstanding.Add(invoice.Amount)
		case domain.InvoiceStatusOverdue:
			summary.Outstanding = summary.Outstanding.Add(invoice.Amount)
			summary.OverdueCount++
		}
	}
	return summary
}

// MonthlyBillingRollup partitions paid billing amounts into the
// trailing 12 calendar months by period start, chronological, with
// zero totals for months that had no paid billing.
func MonthlyBillingRollup(records []domain.BillingRecord, now time.Time) []MonthlyTotal {
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	totals := make([]decimal.Decimal, 12)
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for i := range records {
		record := &records[i]
		if record.Status != domain.BillingStatusPaid {
			continue
		}
		start := record.PeriodStart
		idx := (start.Year()-firstMonth.Year())*12 + int(start.Month()) - int(firstMonth.Month())
		if idx < 0 || idx >= 12 {
			continue
		}
		totals[idx] = totals[idx].Add(record.Amount)
	}

	rollup := make([]MonthlyTotal, 12)
	for i := range rollup {
		month := firstMonth.AddDate(0, i, 0)
		rollup[i] = MonthlyTotal{
			Label: month.Format("Jan 2006"),
			Total: totals[i],
		}
	}
	return rollup
}
