// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	AppName       string
	Order         *order.Order
}

// GenerateInvoice renders a PDF invoice for an order and its line items
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s-%05d", time.Now().Format("20060102"), o.ID),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		AppName:       s.config.App.Name,
		Order:         o,
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("%.2f", float64(cents)/100)
		},
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
        .meta { color: #666; margin-top: 4px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th { text-align: left; background: #f3f4f6; padding: 8px; border-bottom: 2px solid #ddd; }
        td { padding: 8px; border-bottom: 1px solid #eee; }
        .num { text-align: right; }
        .totals { margin-top: 20px; width: 40%; margin-left: auto; }
        .totals td { border: none; }
        .grand { font-weight: bold; border-top: 2px solid #333; }
    </style>
</head>
<body>
    <div class="header">
        <div class="invoice-title">{{.AppName}}</div>
        <div class="meta">Invoice {{.InvoiceNumber}} &middot; {{.InvoiceDate}}</div>
        <div class="meta">Order #{{.Order.ID}} &middot; Customer: {{.Order.User.GetDisplayName}}</div>
    </div>

    <table>
        <tr>
            <th>Product</th>
            <th class="num">Quantity</th>
            <th class="num">Unit Price</th>
            <th class="num">Line Total</th>
        </tr>
        {{range .Order.Items}}
        <tr>
            <td>{{.Product.Name}} ({{.Product.Model}})</td>
            <td class="num">{{.Quantity}}</td>
            <td class="num">{{money .UnitPrice}}</td>
            <td class="num">{{money .LineTotal}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{money .Order.Subtotal}}</td></tr>
        <tr><td>Freight</td><td class="num">{{money .Order.Freight}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{money .Order.Total}}</td></tr>
    </table>
</body>
</html>
`
