package types

const (
	PaginationDefaultLimit = 50
	PaginationMaxLimit     = 200
)

// PaginationParams are the common list query parameters.
type PaginationParams struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

func (p PaginationParams) GetLimit() int {
	if p.Limit <= 0 {
		return PaginationDefaultLimit
	}
	if p.Limit > PaginationMaxLimit {
		return PaginationMaxLimit
	}
	return p.Limit
}

func (p PaginationParams) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// PaginationInfo is echoed back on list responses.
type PaginationInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func NewPaginationInfo(limit, offset, total int) PaginationInfo {
	return PaginationInfo{Limit: limit, Offset: offset, Total: total}
}
