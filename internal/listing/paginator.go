package listing

import (
	"strconv"
	"strings"

	"blogicum/internal/pkg"
)

// LastPage ParsePage 对 "last" 的返回值，需在得到总数后换算
const LastPage = -1

type Page struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePage 解析 ?page=：空值为第一页，"last" 为最后一页，其余非正整数 404
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	if raw == "last" {
		return LastPage, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, pkg.NewNotFound("page")
	}
	return n, nil
}

func NumPages(total int64, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Resolve 把 LastPage 换算成具体页码
func Resolve(page int, total int64, size int) int {
	if page == LastPage {
		return NumPages(total, size)
	}
	return page
}

// Paginate 页码越界（空列表的第一页除外）返回 404
func Paginate(total int64, page, size int) (Page, error) {
	num := NumPages(total, size)
	page = Resolve(page, total, size)
	if page < 1 || page > num {
		return Page{}, pkg.NewNotFound("page")
	}
	return Page{
		Number:      page,
		NumPages:    num,
		Count:       total,
		HasNext:     page < num,
		HasPrevious: page > 1,
	}, nil
}
