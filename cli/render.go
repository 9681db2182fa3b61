package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"storefront/catalog"
	"storefront/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// writeEncoded writes v as indented JSON or YAML. ok is false for any
// other format so callers can fall back to their table rendering.
func writeEncoded(w io.Writer, format string, v interface{}) (ok bool, err error) {
	switch strings.ToLower(format) {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(b))
		return true, err
	case "yaml", "yml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = w.Write(b)
		return true, err
	default:
		return false, nil
	}
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func stockLabel(p domain.Product) string {
	if !p.InStock() {
		return "out of stock"
	}
	return strconv.Itoa(p.Stock)
}

// renderView prints one page of products as a table followed by the
// pagination control.
func renderView(w io.Writer, v catalog.View) {
	if v.TotalItems == 0 {
		fmt.Fprintln(w, "No products match the current filters.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "BRAND", "PRICE", "RATING", "STOCK")
	for _, p := range v.Items {
		t.Row(
			strconv.Itoa(p.ID),
			p.Title,
			p.Brand,
			fmt.Sprintf("%.2f", p.Price),
			formatRating(domain.EffectiveRating(p)),
			stockLabel(p),
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("page %d of %d, %d products", v.Page, v.TotalPages, v.TotalItems)))
	if links := catalog.PageWindow(v.Page, v.TotalPages); links != nil {
		fmt.Fprintln(w, formatWindow(links))
	}
}

// formatWindow renders page links as "< 1 2 [3] 4 ... 10 >".
func formatWindow(links []catalog.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch l.Kind {
		case catalog.LinkPrev:
			parts = append(parts, "<")
		case catalog.LinkNext:
			parts = append(parts, ">")
		case catalog.LinkEllipsis:
			parts = append(parts, "...")
		case catalog.LinkCurrent:
			parts = append(parts, "["+strconv.Itoa(l.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Page))
		}
	}
	return strings.Join(parts, " ")
}

// renderProduct prints the detail view of a single product.
func renderProduct(w io.Writer, p domain.Product) {
	fmt.Fprintln(w, titleStyle.Render(p.Title))
	if p.Brand != "" {
		fmt.Fprintf(w, "Brand:   %s\n", p.Brand)
	}
	fmt.Fprintf(w, "Price:   %.2f\n", p.Price)
	if p.DiscountPercentage > 0 {
		fmt.Fprintf(w, "Discount: %.1f%%\n", p.DiscountPercentage)
	}
	fmt.Fprintf(w, "Rating:  %s (%d reviews)\n", formatRating(domain.EffectiveRating(p)), len(p.Reviews))
	fmt.Fprintf(w, "Stock:   %s\n", stockLabel(p))
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
	if len(p.Reviews) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, r := range p.Reviews {
		fmt.Fprintf(w, "  %d/5  %s: %s\n", r.Rating, r.DisplayName(), r.Comment)
	}
}

func renderFacets(w io.Writer, f catalog.Facets) {
	fmt.Fprintf(w, "Brands:      %s\n", strings.Join(f.Brands, ", "))
	fmt.Fprintf(w, "Price range: %.2f - %.2f\n", f.PriceRange.Min, f.PriceRange.Max)
	fmt.Fprintf(w, "In stock:    %d (%d out of stock)\n", f.InStock, f.OutOfStock)
	keys := make([]string, 0, len(f.SortKeys))
	for _, k := range f.SortKeys {
		keys = append(keys, string(k))
	}
	fmt.Fprintf(w, "Sort keys:   %s\n", strings.Join(keys, ", "))
}
