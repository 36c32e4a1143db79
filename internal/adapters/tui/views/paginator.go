package views

// Paginator tracks a cursor over a listing and the page of rows shown around it
type Paginator struct {
	pageSize int
	offset   int
	cursor   int
	total    int
}

// NewPaginator creates a paginator showing pageSize rows at a time
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{pageSize: pageSize}
}

// SetTotal sets the number of rows, clamping the cursor to the last one
func (p *Paginator) SetTotal(total int) {
	p.total = total
	p.SetCursor(p.cursor)
}

// Cursor returns the absolute row under the cursor
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor to pos, clamped to the listing
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(0, min(pos, p.total-1))
	p.follow()
}

// CursorUp moves the cursor one row up
func (p *Paginator) CursorUp() bool {
	return p.move(-1)
}

// CursorDown moves the cursor one row down
func (p *Paginator) CursorDown() bool {
	return p.move(1)
}

// PageUp moves the cursor one page up
func (p *Paginator) PageUp() bool {
	return p.move(-p.pageSize)
}

// PageDown moves the cursor one page down
func (p *Paginator) PageDown() bool {
	return p.move(p.pageSize)
}

// Top moves the cursor to the first row
func (p *Paginator) Top() bool {
	return p.move(-p.cursor)
}

// Bottom moves the cursor to the last row
func (p *Paginator) Bottom() bool {
	return p.move(p.total - 1 - p.cursor)
}

// VisibleRange returns the rows of the current page as [start, end)
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.pageSize, p.total)
}

// TotalPages returns the number of pages, at least one
func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the page holding the cursor, starting at 1
func (p *Paginator) CurrentPage() int {
	return p.offset/p.pageSize + 1
}

// Reset empties the paginator
func (p *Paginator) Reset() {
	p.cursor = 0
	p.offset = 0
	p.total = 0
}

func (p *Paginator) move(delta int) bool {
	before := p.cursor
	p.SetCursor(p.cursor + delta)
	return p.cursor != before
}

// follow keeps the page aligned so the cursor is always visible
func (p *Paginator) follow() {
	p.offset = (p.cursor / p.pageSize) * p.pageSize
}
