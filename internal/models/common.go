package models

// DeleteResult describes a delete that touched more than the deleted row
type DeleteResult struct {
	DeletedID     uint   `json:"deletedId"`
	AffectedCount int64  `json:"affectedCount"`
	Description   string `json:"description"`
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Records  []T   `json:"records"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"pageNum"`
	PageSize int   `json:"pageSize"`
	Pages    int64 `json:"pages"`
}

// NewPage builds a Page and computes the page count
func NewPage[T any](records []T, total int64, pageNum, pageSize int) Page[T] {
	if records == nil {
		records = []T{}
	}
	var pages int64
	if pageSize > 0 {
		pages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Page[T]{
		Records:  records,
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
		Pages:    pages,
	}
}
