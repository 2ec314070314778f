package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/andy/orionledger/internal/domain"
)

// column widths of the item table, in mm
var columnWidths = [4]float64{90, 25, 35, 35}

const (
	marginLeft  = 20.0
	detailsLeft = 160.0
	tableTop    = 90.0
	rowHeight   = 7.0
	lineHeight  = 5.0
	fontFamily  = "Helvetica"
	titleFontPt = 24
	bodyFontPt  = 10
	totalFontPt = 12
	headerShade = 245
)

// PDFRenderer exports invoices as A4 PDF files into a directory
type PDFRenderer struct {
	outputDir  string
	letterhead Letterhead
	logger     *zap.Logger
}

// NewPDFRenderer creates a renderer writing into outputDir
func NewPDFRenderer(outputDir string, lh Letterhead, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{
		outputDir:  outputDir,
		letterhead: lh,
		logger:     logger,
	}
}

// Export lays out the invoice and writes it into the output directory
func (r *PDFRenderer) Export(ctx context.Context, inv *domain.Invoice, client *domain.Client) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := NewDocument(inv, client, r.letterhead)
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(r.outputDir, doc.FileName)
	if err := r.Write(doc, path); err != nil {
		return "", err
	}

	r.logger.Info("invoice exported",
		zap.String("order_id", inv.OrderID),
		zap.String("client_id", inv.ClientID),
		zap.String("path", path),
	)
	return path, nil
}

// Write renders doc as a PDF file at path
func (r *PDFRenderer) Write(doc *Document, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title+" "+doc.InvoiceNumber, true)
	pdf.SetCreator("orionledger", true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "", titleFontPt)
	pdf.SetTextColor(46, 204, 113)
	pdf.Text(marginLeft, 25, tr(doc.Title))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "B", bodyFontPt)
	pdf.Text(marginLeft, 35, tr(doc.BusinessName))

	pdf.SetFont(fontFamily, "", bodyFontPt)
	for i, line := range doc.BusinessInfo {
		pdf.Text(marginLeft, 40+float64(i)*lineHeight, tr(line))
	}

	pdf.Text(detailsLeft, 35, tr("Invoice #: "+doc.InvoiceNumber))
	pdf.Text(detailsLeft, 40, tr("Date: "+doc.Date))

	for i, line := range doc.BillTo {
		pdf.Text(marginLeft, 60+float64(i)*lineHeight, tr(line))
	}

	pdf.SetXY(marginLeft-5, tableTop)
	pdf.SetFillColor(headerShade, headerShade, headerShade)
	for i, h := range TableHeader {
		pdf.CellFormat(columnWidths[i], rowHeight, tr(h), "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	for _, row := range doc.Rows {
		pdf.SetX(marginLeft - 5)
		for i, cell := range row {
			pdf.CellFormat(columnWidths[i], rowHeight, tr(cell), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	finalY := pdf.GetY() + 15
	pdf.SetFont(fontFamily, "B", totalFontPt)
	pdf.Text(marginLeft, finalY, tr("Total Due: "+doc.Total))

	pdf.SetFont(fontFamily, "", bodyFontPt)
	pdf.Text(marginLeft, finalY+10, "Payment Details:")
	pdf.SetXY(marginLeft-1, finalY+12)
	for _, line := range doc.PaymentDetails {
		pdf.SetX(marginLeft - 1)
		pdf.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
