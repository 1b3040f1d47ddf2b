package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mesalivre/internal/dto"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer writes receipt and report PDFs under a storage root. It is a
// pure projection sink: nothing feeds back into the domain from here.
type PDFRenderer struct {
	storagePath string
}

func NewPDFRenderer(storagePath string) *PDFRenderer {
	return &PDFRenderer{storagePath: storagePath}
}

// RenderReceipt renders a tab receipt (80mm thermal layout) and returns the
// path of the written file.
func (r *PDFRenderer) RenderReceipt(doc dto.ReceiptDocument) (string, error) {
	if err := os.MkdirAll(r.storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: storage dir: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: 80, Ht: 200},
	})
	pdf.SetMargins(5, 8, 5)
	pdf.AddPage()

	pdf.SetFont("Courier", "B", 11)
	pdf.CellFormat(70, 6, doc.Header, "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(70, 4, fmt.Sprintf("Table %d — %s", doc.TableNumber, doc.Waiter), "", 1, "C", false, 0, "")
	pdf.CellFormat(70, 4, doc.IssuedAt, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Courier", "", 8)
	for _, line := range doc.Lines {
		pdf.CellFormat(40, 4, fmt.Sprintf("%dx %s", line.Quantity, line.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 4, line.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Courier", "B", 10)
	pdf.CellFormat(40, 5, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, doc.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(70, 4, doc.Footer, "", 1, "C", false, 0, "")

	name := fmt.Sprintf("receipt_%d.pdf", time.Now().UnixNano())
	path := filepath.Join(r.storagePath, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write receipt: %w", err)
	}
	return path, nil
}

// RenderRegisterReport renders a closing report for mailing to the tenant
// owner.
func (r *PDFRenderer) RenderRegisterReport(report dto.RegisterReport) (string, error) {
	if err := os.MkdirAll(r.storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: storage dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(180, 8, fmt.Sprintf("Register closing report — terminal %d", report.Terminal), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(180, 6, fmt.Sprintf("Operator: %s", report.Operator), "", 1, "L", false, 0, "")
	pdf.CellFormat(180, 6, fmt.Sprintf("Opened: %s", report.OpenedAt), "", 1, "L", false, 0, "")
	if report.ClosedAt != nil {
		pdf.CellFormat(180, 6, fmt.Sprintf("Closed: %s", *report.ClosedAt), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	rows := []struct {
		label string
		value string
	}{
		{"Opening float", report.OpeningFloat.StringFixed(2)},
		{"Cash sales", report.Sales.Cash.StringFixed(2)},
		{"Debit sales", report.Sales.Debit.StringFixed(2)},
		{"Credit sales", report.Sales.Credit.StringFixed(2)},
		{"Pix sales", report.Sales.Pix.StringFixed(2)},
		{"Sales total", report.Sales.Total.StringFixed(2)},
		{"Sangrias", report.Sangrias.StringFixed(2)},
		{"Suprimentos", report.Suprimentos.StringFixed(2)},
		{"Cash in drawer", report.CashInDrawer.StringFixed(2)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(90, 7, row.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, row.value, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(180, 6, fmt.Sprintf("%d sales recorded", report.SaleCount), "", 1, "L", false, 0, "")

	name := fmt.Sprintf("register_%s.pdf", report.SessionID)
	path := filepath.Join(r.storagePath, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write report: %w", err)
	}
	return path, nil
}
