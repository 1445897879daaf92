package invoice

import (
	"bytes"
	"fmt"
	"time"

	"craftmarket/internal/models"

	"github.com/go-pdf/fpdf"
)

// Renderer produces invoice PDFs from finalized payment records. It holds no
// state and never mutates its inputs; callers are responsible for gating it
// behind payment eligibility.
type Renderer struct {
	companyName    string
	companyTagline string
	companyAddress string
	companyEmail   string
}

// NewRenderer creates a Renderer with the marketplace letterhead.
func NewRenderer() *Renderer {
	return &Renderer{
		companyName:    "Craftmarket",
		companyTagline: "Handmade Marketplace",
		companyAddress: "Addis Ababa, Ethiopia",
		companyEmail:   "support@craftmarket.example",
	}
}

// GenerateInvoice renders the invoice PDF for a payment, billed to the given
// purchaser.
func (r *Renderer) GenerateInvoice(payment *models.Payment, billToName, billToEmail string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(41, 98, 255)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, r.companyTagline, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, r.companyAddress, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, r.companyEmail, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Bill-to block and invoice info side by side.
	if billToName == "" {
		billToName = "Valued Customer"
	}
	topY := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(95, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 5, billToName, "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 5, billToEmail, "", 1, "L", false, 0, "")

	pdf.SetXY(110, topY)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(82, 8, "INVOICE", "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	invoiceNo := payment.ID
	if len(invoiceNo) > 8 {
		invoiceNo = invoiceNo[:8]
	}
	pdf.CellFormat(82, 5, fmt.Sprintf("Invoice #: INV-%s", invoiceNo), "", 2, "R", false, 0, "")
	pdf.CellFormat(82, 5, fmt.Sprintf("Date: %s", payment.CreatedAt.Format("2006-01-02")), "", 2, "R", false, 0, "")
	pdf.Ln(14)
	pdf.SetX(18)

	// Line table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetDrawColor(200, 200, 200)
	pdf.CellFormat(130, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(44, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(130, 8, "Marketplace Payment", "B", 0, "L", false, 0, "")
	pdf.CellFormat(44, 8, fmt.Sprintf("%s %s", payment.Currency, payment.Amount.StringFixed(2)), "B", 1, "R", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(174, 8, fmt.Sprintf("Total Paid: %s %s", payment.Currency, payment.Amount.StringFixed(2)), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Payment details
	method := payment.PaymentMethod
	if method == "" {
		method = "Chapa Online Payment"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Payment Method: %s", method), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Transaction Ref: %s", payment.TxRef), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	if payment.Status == models.PaymentSuccess {
		pdf.SetTextColor(46, 125, 50)
	} else {
		pdf.SetTextColor(198, 40, 40)
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", payment.Status), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// Footer
	pdf.SetY(-35)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Thank you for shopping with Craftmarket!", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", time.Now().Format(time.RFC1123)), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice for %s: %w", payment.TxRef, err)
	}
	return buf.Bytes(), nil
}
