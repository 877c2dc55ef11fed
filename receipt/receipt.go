package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"lakecity/models"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	shopName    = "Lake City Fish"
	shopAddress = "Soulard Market, 730 Carroll St, St. Louis, MO 63104"
	shopPhone   = "(314) 582-5011"
)

const logoMaxPx = 240

// Renderer draws receipts, optionally headed by the shop logo.
type Renderer struct {
	logo []byte // PNG

	uncompressed bool
}

// NewRenderer loads and downsizes the logo at logoPath. A missing file
// yields a renderer without a logo.
func NewRenderer(logoPath string) (*Renderer, error) {
	if logoPath == "" {
		return &Renderer{}, nil
	}
	img, err := imaging.Open(logoPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &Renderer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open receipt logo: %w", err)
	}

	var buf bytes.Buffer
	thumb := imaging.Fit(img, logoMaxPx, logoMaxPx, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode receipt logo: %w", err)
	}
	return &Renderer{logo: buf.Bytes()}, nil
}

// HasLogo reports whether receipts carry the shop logo.
func (r *Renderer) HasLogo() bool {
	return len(r.logo) > 0
}

// Render builds a receipt without a logo.
func Render(order models.Order) ([]byte, error) {
	return (&Renderer{}).Render(order)
}

// Render builds a one-page PDF receipt for a stored order. The QR code
// carries the order number so staff can look the order up at pickup.
func (r *Renderer) Render(order models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.uncompressed)
	// The core fonts are cp1252; order text arrives as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	if r.HasLogo() {
		pdf.RegisterImageOptionsReader("logo", imageOpts, bytes.NewReader(r.logo))
		pdf.ImageOptions("logo", 170, 10, 25, 0, false, imageOpts, 0, "")
	}
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, shopName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, shopAddress)
	pdf.Ln(5)
	pdf.Cell(0, 6, shopPhone)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Order "+tr(order.OrderNumber))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 7, "Name: "+tr(order.CustomerName))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Pickup date: "+tr(order.PickupDate))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr("Payment: "+order.PaymentMethod.Label()+" ("+string(order.PaymentStatus)+")"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(100, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		amount := "Market price"
		if it.Price != nil {
			amount = models.Money(it.LineTotal)
		}
		pdf.CellFormat(100, 7, tr(it.ProductName), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, amount, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	for _, row := range [][2]string{
		{"Subtotal", models.Money(order.Subtotal)},
		{"Tax", models.Money(order.Tax)},
		{"Total", models.Money(order.Total)},
	} {
		pdf.CellFormat(125, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, row[1], "", 1, "R", false, 0, "")
	}

	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
