package catalog

import "storefront/domain"

// Session owns the view state of one browsing session: the catalog it was
// created from, the active criteria and the current page. It is not safe
// for concurrent use; each session belongs to a single caller.
type Session struct {
	all      []domain.Product
	criteria domain.FilterCriteria
	filtered []domain.Product
	page     int
	perPage  int
}

// NewSession starts a session on page 1 with no filters applied.
func NewSession(all []domain.Product, perPage int) *Session {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	s := &Session{all: all, perPage: perPage}
	s.SetCriteria(domain.FilterCriteria{Sort: domain.SortDefault})
	return s
}

// SetCriteria replaces the criteria, recomputes the filtered list and
// resets pagination to page 1.
func (s *Session) SetCriteria(c domain.FilterCriteria) {
	s.criteria = c
	s.filtered = Apply(s.all, c)
	s.page = 1
}

// SetCatalog swaps in a newly fetched catalog. Criteria are kept and the
// current page is clamped to the new page count.
func (s *Session) SetCatalog(all []domain.Product) {
	s.all = all
	s.filtered = Apply(all, s.criteria)
	s.GoToPage(s.page)
}

// Reset clears every filter and the sort order.
func (s *Session) Reset() {
	s.SetCriteria(domain.FilterCriteria{Sort: domain.SortDefault})
}

// SetPerPage changes the page size and returns to page 1.
func (s *Session) SetPerPage(n int) {
	if n <= 0 {
		n = DefaultPerPage
	}
	s.perPage = n
	s.page = 1
}

// GoToPage moves to page n, clamped to the available pages. Criteria are kept.
func (s *Session) GoToPage(n int) {
	last := TotalPages(len(s.filtered), s.perPage)
	if last < 1 {
		last = 1
	}
	switch {
	case n < 1:
		n = 1
	case n > last:
		n = last
	}
	s.page = n
}

// Next advances one page, staying on the last page.
func (s *Session) Next() { s.GoToPage(s.page + 1) }

// Prev goes back one page, staying on page 1.
func (s *Session) Prev() { s.GoToPage(s.page - 1) }

// Catalog returns the unfiltered catalog the session browses.
func (s *Session) Catalog() []domain.Product { return s.all }

func (s *Session) Criteria() domain.FilterCriteria { return s.criteria }

func (s *Session) Page() int { return s.page }

func (s *Session) PerPage() int { return s.perPage }

// Filtered returns the full filtered and sorted sequence.
func (s *Session) Filtered() []domain.Product { return s.filtered }

// View returns the current page.
func (s *Session) View() View {
	return Paginate(s.filtered, s.page, s.perPage)
}

// Window returns the pagination control for the current page.
func (s *Session) Window() []PageLink {
	return PageWindow(s.page, TotalPages(len(s.filtered), s.perPage))
}
