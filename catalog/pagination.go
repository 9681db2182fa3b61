package catalog

import "storefront/domain"

// TotalPages returns the number of pages needed for total items.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 0
	}
	n := total / perPage
	if total%perPage != 0 {
		n++
	}
	return n
}

// Paginate slices an already ordered result down to one page.
func Paginate(items []domain.Product, page, perPage int) View {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	v := View{
		Items:      []domain.Product{},
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: TotalPages(total, perPage),
	}
	if page < 1 || page > v.TotalPages {
		return v
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	v.Items = items[start:end]
	return v
}

// PageLinkKind distinguishes the entries of a pagination control
type PageLinkKind string

const (
	LinkPrev     PageLinkKind = "prev"
	LinkPage     PageLinkKind = "page"
	LinkCurrent  PageLinkKind = "current"
	LinkEllipsis PageLinkKind = "ellipsis"
	LinkNext     PageLinkKind = "next"
)

// PageLink is one entry in a pagination control. Page is 0 for ellipsis.
type PageLink struct {
	Kind PageLinkKind `json:"kind"`
	Page int          `json:"page,omitempty"`
}

// PageWindow lays out the pagination control for the current page: a
// previous link, the first three and last three pages, the neighbours of
// the current page, a single ellipsis for each elided run, and a next link.
// One page or fewer needs no control and yields nil, as does a current page
// outside 1..totalPages.
func PageWindow(current, totalPages int) []PageLink {
	if totalPages <= 1 || current < 1 || current > totalPages {
		return nil
	}
	var links []PageLink
	if current > 1 {
		links = append(links, PageLink{Kind: LinkPrev, Page: current - 1})
	}
	for i := 1; i <= totalPages; i++ {
		switch {
		case i == current:
			links = append(links, PageLink{Kind: LinkCurrent, Page: i})
		case i <= 3 || i >= totalPages-2 || abs(i-current) <= 1:
			links = append(links, PageLink{Kind: LinkPage, Page: i})
		case i == 4 || i == totalPages-3:
			if links[len(links)-1].Kind != LinkEllipsis {
				links = append(links, PageLink{Kind: LinkEllipsis})
			}
		}
	}
	if current < totalPages {
		links = append(links, PageLink{Kind: LinkNext, Page: current + 1})
	}
	return links
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
