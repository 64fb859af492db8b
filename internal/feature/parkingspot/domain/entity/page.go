package entity

// SortDirection is the ordering applied to the sort field.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Defaults applied when a list request omits an option.
const (
	DefaultPage      = 0
	DefaultPageSize  = 10
	DefaultSortField = "id"
	MaxPageSize      = 100
)

// PageRequest describes which slice of parking spots to return.
// Paging and ordering are done by the storage layer.
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction SortDirection
}

// DefaultPageRequest returns the request used when no options are given.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:      DefaultPage,
		Size:      DefaultPageSize,
		Sort:      DefaultSortField,
		Direction: SortAsc,
	}
}

// Offset returns the number of records to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of parking spots together with the totals.
type Page struct {
	Content       []ParkingSpot
	Request       PageRequest
	TotalElements int64
}

// TotalPages returns the number of pages for the request's page size.
func (p Page) TotalPages() int {
	if p.Request.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Request.Size) - 1) / int64(p.Request.Size))
}
