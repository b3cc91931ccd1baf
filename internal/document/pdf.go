package document

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"sushi-orders/internal/domain"
)

// Renderer produces the bytes of an invoice document.
type Renderer interface {
	Render(ctx context.Context, doc domain.InvoiceDocument) ([]byte, error)
	Extension() string
}

// PDFRenderer lays out invoices as A4 PDFs.
type PDFRenderer struct {
	ShopName string
}

func NewPDFRenderer(shopName string) *PDFRenderer {
	return &PDFRenderer{ShopName: shopName}
}

func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (r *PDFRenderer) Render(ctx context.Context, doc domain.InvoiceDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv, order := doc.Invoice, doc.Order

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, r.ShopName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
		text.NewCol(4, "Invoice", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+inv.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+inv.InvoiceDate.Format("2006-01-02"), props.Text{Top: 4}),
			text.New("Order: "+order.ID, props.Text{Top: 8, Size: 8}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New("Customer "+inv.CustomerID, props.Text{Top: 4, Size: 8, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range order.Lines {
		name := line.ProductName
		if name == "" {
			name = line.ProductID
		}
		m.AddRow(8,
			text.NewCol(6, name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Price.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Price.Times(line.Quantity).String(), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, inv.Amount.String(), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if order.Comments != "" {
		m.AddRow(15,
			text.NewCol(12, "Comments: "+order.Comments, props.Text{Size: 8, Top: 4}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}
