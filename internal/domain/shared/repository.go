package shared

// Filter holds common list/query options shared by repositories
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// NewFilter creates an empty filter
func NewFilter() Filter {
	return Filter{Filters: make(map[string]interface{})}
}

// Offset returns the row offset implied by Page/PageSize
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
