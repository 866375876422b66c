// Package pdf renders loan statements as PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/danutama/loan-tracker/internal/domain"
)

// RenderStatement produces a fixed-layout A4 statement: a title, the loan
// metadata block, and the payment table (or a placeholder when no payments
// exist). Long payment histories flow onto additional pages.
func RenderStatement(loan *domain.LoanWithBorrower, payments []*domain.Payment) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("Loan Statement - #%s", loan.ID))
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 11)
	meta := []string{
		fmt.Sprintf("Borrower: %s", loan.BorrowerName),
		fmt.Sprintf("Principal: %s", loan.Principal.StringFixed(2)),
		fmt.Sprintf("Annual Rate (%%): %s", loan.AnnualRate.String()),
		fmt.Sprintf("Term (months): %d", loan.TermMonths),
		fmt.Sprintf("EMI: %s", loan.EMI.StringFixed(2)),
		fmt.Sprintf("Created at: %s", loan.CreatedAt.Format("2006-01-02 15:04:05")),
	}
	for _, line := range meta {
		doc.Cell(0, 7, line)
		doc.Ln(7)
	}
	doc.Ln(3)

	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(0, 8, "Payments:")
	doc.Ln(10)

	if len(payments) == 0 {
		doc.SetFont("Helvetica", "", 10)
		doc.Cell(0, 6, "No payments recorded.")
	} else {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(50, 7, "Date", "B", 0, "L", false, 0, "")
		doc.CellFormat(50, 7, "Amount", "B", 0, "L", false, 0, "")
		doc.CellFormat(70, 7, "Recorded At", "B", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "", 10)
		for _, p := range payments {
			doc.CellFormat(50, 6, p.PaymentDate.Format("2006-01-02"), "", 0, "L", false, 0, "")
			doc.CellFormat(50, 6, p.Amount.StringFixed(2), "", 0, "L", false, 0, "")
			doc.CellFormat(70, 6, p.CreatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering statement: %w", err)
	}

	return buf.Bytes(), nil
}
