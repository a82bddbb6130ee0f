package request

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 1_000_000
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// Offset is the number of rows skipped before the current page.
func (p PaginatedRequest) Offset() int {
	return (p.CurrentPage() - 1) * p.Limit()
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}

// CurrentPage is Page clamped to [1, MaxPage].
func (p PaginatedRequest) CurrentPage() int {
	if p.Page < 1 {
		return 1
	}
	if p.Page > MaxPage {
		return MaxPage
	}
	return p.Page
}
