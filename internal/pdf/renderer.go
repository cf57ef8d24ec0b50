package pdf

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
)

// Template selects the visual layout of the generated invoice.
type Template string

const (
	TemplateClassic Template = "classic"
	TemplateModern  Template = "modern"
	TemplateElegant Template = "elegant"
)

// ParseTemplate resolves a template name, defaulting to classic when empty.
func ParseTemplate(name string) (Template, error) {
	switch Template(name) {
	case "":
		return TemplateClassic, nil
	case TemplateClassic, TemplateModern, TemplateElegant:
		return Template(name), nil
	default:
		return "", ierr.NewErrorf("unknown pdf template: %s", name).
			WithHint("Template must be one of classic, modern, elegant").
			WithReportableDetails(map[string]any{"template": name}).
			Mark(ierr.ErrValidation)
	}
}

// Renderer turns persisted invoices into PDF documents. Totals are read from
// the invoice as stored; the renderer never runs the billing engine.
type Renderer struct {
	log *logger.Logger
}

func NewRenderer(log *logger.Logger) *Renderer {
	return &Renderer{log: log}
}

// Render generates the invoice PDF with the given template.
func (r *Renderer) Render(inv *invoice.Invoice, owner *user.User, tmpl Template) ([]byte, error) {
	view := newInvoiceView(inv, owner)

	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(15).
		WithRightMargin(12).
		Build()
	m := maroto.New(cfg)

	switch tmpl {
	case TemplateModern:
		renderModern(m, view)
	case TemplateElegant:
		renderElegant(m, view)
	default:
		renderClassic(m, view)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate invoice PDF").
			WithReportableDetails(map[string]any{"invoice_number": inv.Number}).
			Mark(ierr.ErrSystem)
	}

	r.log.Debugw("rendered invoice pdf",
		"invoice_id", inv.ID,
		"template", tmpl,
		"bytes", len(doc.GetBytes()))
	return doc.GetBytes(), nil
}

// renderClassic is the default layout: seller block top-left, invoice meta
// top-right, plain ruled items table.
func renderClassic(m core.Maroto, v invoiceView) {
	m.AddRow(10,
		col.New(7).Add(
			text.New(v.SellerName, props.Text{Size: 14, Style: fontstyle.Bold}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	m.AddRow(14,
		col.New(7).Add(
			text.New(v.SellerAddress, props.Text{Size: 9, Top: 0}),
			text.New(v.SellerPhone, props.Text{Size: 9, Top: 4}),
			text.New(sellerTaxLine(v), props.Text{Size: 9, Top: 8}),
		),
		col.New(5).Add(
			text.New("# "+v.Number, props.Text{Size: 10, Align: align.Right, Top: 0}),
			text.New("Issued: "+v.IssueDate, props.Text{Size: 9, Align: align.Right, Top: 4}),
			text.New("Due: "+v.DueDate, props.Text{Size: 9, Align: align.Right, Top: 8}),
		),
	)
	m.AddRow(8,
		col.New(7),
		col.New(5).Add(
			text.New(v.StatusLabel, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	m.AddRow(4, line.NewCol(12))

	renderBillTo(m, v)
	renderItemsTable(m, v)
	renderTotals(m, v)
	renderNotes(m, v)
}

// renderModern leads with a full-width name banner and pushes the invoice
// meta into a single compact strip under it.
func renderModern(m core.Maroto, v invoiceView) {
	m.AddRow(14,
		col.New(12).Add(
			text.New(v.SellerName, props.Text{Size: 18, Style: fontstyle.Bold}),
		),
	)
	m.AddRow(3, line.NewCol(12))
	m.AddRow(8,
		col.New(3).Add(
			text.New("Invoice "+v.Number, props.Text{Size: 9, Style: fontstyle.Bold}),
		),
		col.New(3).Add(
			text.New("Issued "+v.IssueDate, props.Text{Size: 9}),
		),
		col.New(3).Add(
			text.New("Due "+v.DueDate, props.Text{Size: 9}),
		),
		col.New(3).Add(
			text.New(v.StatusLabel, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(v.SellerAddress, props.Text{Size: 8, Top: 0}),
			text.New(joinNonEmpty(v.SellerPhone, v.SellerEmail), props.Text{Size: 8, Top: 4}),
		),
	)

	renderBillTo(m, v)
	renderItemsTable(m, v)
	renderTotals(m, v)
	renderNotes(m, v)
}

// renderElegant centers the header and frames it with rules above and below
// the document title.
func renderElegant(m core.Maroto, v invoiceView) {
	m.AddRow(10,
		col.New(12).Add(
			text.New(v.SellerName, props.Text{Size: 15, Style: fontstyle.Bold, Align: align.Center}),
		),
	)
	m.AddRow(6,
		col.New(12).Add(
			text.New(joinNonEmpty(v.SellerAddress, v.SellerPhone), props.Text{Size: 8, Align: align.Center}),
		),
	)
	m.AddRow(3, col.New(3), line.NewCol(6), col.New(3))
	m.AddRow(10,
		col.New(12).Add(
			text.New("Invoice "+v.Number, props.Text{Size: 12, Style: fontstyle.Italic, Align: align.Center}),
		),
	)
	m.AddRow(3, col.New(3), line.NewCol(6), col.New(3))
	m.AddRow(8,
		col.New(4).Add(
			text.New("Issued: "+v.IssueDate, props.Text{Size: 9}),
		),
		col.New(4).Add(
			text.New(v.StatusLabel, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center}),
		),
		col.New(4).Add(
			text.New("Due: "+v.DueDate, props.Text{Size: 9, Align: align.Right}),
		),
	)

	renderBillTo(m, v)
	renderItemsTable(m, v)
	renderTotals(m, v)
	renderNotes(m, v)
}

func renderBillTo(m core.Maroto, v invoiceView) {
	m.AddRow(6,
		col.New(12).Add(
			text.New("BILL TO", props.Text{Size: 9, Style: fontstyle.Bold}),
		),
	)
	rows := []string{v.ClientName, v.ClientAddress, v.ClientEmail}
	if v.ClientTaxID != "" {
		rows = append(rows, "Tax ID: "+v.ClientTaxID)
	}
	components := []core.Component{}
	top := 0.0
	for _, s := range rows {
		if s == "" {
			continue
		}
		components = append(components, text.New(s, props.Text{Size: 9, Top: top}))
		top += 4
	}
	m.AddRow(4+top, col.New(12).Add(components...))
	m.AddRow(4, line.NewCol(12))
}

func renderItemsTable(m core.Maroto, v invoiceView) {
	m.AddRow(8,
		col.New(6).Add(
			text.New("Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		),
		col.New(2).Add(
			text.New("Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
		col.New(2).Add(
			text.New("Unit Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
		col.New(2).Add(
			text.New("Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range v.Items {
		desc := item.Description
		if !item.Taxable {
			desc += " *"
		}
		m.AddRow(7,
			col.New(6).Add(
				text.New(desc, props.Text{Size: 9}),
			),
			col.New(2).Add(
				text.New(item.Quantity, props.Text{Size: 9, Align: align.Right}),
			),
			col.New(2).Add(
				text.New(item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			),
			col.New(2).Add(
				text.New(item.Amount, props.Text{Size: 9, Align: align.Right}),
			),
		)
	}
	m.AddRow(2, line.NewCol(12))
	if hasNonTaxable(v) {
		m.AddRow(5,
			col.New(12).Add(
				text.New("* VAT exempt", props.Text{Size: 7}),
			),
		)
	}
}

func renderTotals(m core.Maroto, v invoiceView) {
	totalRow := func(label, amount string, bold bool) {
		style := fontstyle.Normal
		size := 9.0
		if bold {
			style = fontstyle.Bold
			size = 11
		}
		m.AddRow(6,
			col.New(7),
			col.New(3).Add(
				text.New(label, props.Text{Size: size, Style: style, Align: align.Right}),
			),
			col.New(2).Add(
				text.New(amount, props.Text{Size: size, Style: style, Align: align.Right}),
			),
		)
	}

	totalRow("Subtotal:", v.Subtotal, false)
	if v.HasDiscount {
		totalRow(v.DiscountLabel+":", v.DiscountAmount, false)
	}
	totalRow("Net amount:", v.NetAmount, false)
	totalRow(v.TaxLabel+":", v.Tax, false)
	m.AddRow(2, col.New(7), line.NewCol(5))
	totalRow("TOTAL:", v.Total, true)
}

func renderNotes(m core.Maroto, v invoiceView) {
	if v.Notes == "" {
		return
	}
	m.AddRow(8,
		col.New(12).Add(
			text.New("Notes", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}),
		),
	)
	m.AddRow(10,
		col.New(12).Add(
			text.New(v.Notes, props.Text{Size: 8}),
		),
	)
}

func sellerTaxLine(v invoiceView) string {
	if v.SellerTaxID == "" {
		return ""
	}
	return "Tax ID: " + v.SellerTaxID
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "  ·  "
		}
		out += p
	}
	return out
}

func hasNonTaxable(v invoiceView) bool {
	for _, item := range v.Items {
		if !item.Taxable {
			return true
		}
	}
	return false
}
