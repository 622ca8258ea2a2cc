// Package listing 描述文章列表查询：过滤范围、排序与分页参数。
// 由 service 按页面类型构造，repository 负责翻译成 SQL。
package listing

import (
	"time"

	"blogicum/internal/access"
)

const PageSize = 10

// Scope 列表的可见性范围
type Scope int

const (
	// ScopePublic 仅公开文章
	ScopePublic Scope = iota
	// ScopePublicOrOwn 公开文章加上 ViewerID 本人的全部文章
	ScopePublicOrOwn
	// ScopeAll 不做可见性过滤（作者浏览自己的主页）
	ScopeAll
)

// PostQuery 一次列表查询的完整描述，排序固定为 pub_date DESC, id DESC
type PostQuery struct {
	Scope      Scope
	ViewerID   uint64
	AuthorID   *uint64
	CategoryID *uint64
	Now        time.Time
	Page       int
	PageSize   int
}

func (q PostQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.size()
}

func (q PostQuery) Limit() int {
	return q.size()
}

func (q PostQuery) size() int {
	if q.PageSize <= 0 {
		return PageSize
	}
	return q.PageSize
}

// Index 首页：公开文章；已登录用户额外能看到自己的未公开文章
func Index(v access.Viewer, now time.Time, page int) PostQuery {
	q := PostQuery{Scope: ScopePublic, Now: now, Page: page, PageSize: PageSize}
	if v.IsAuthenticated() {
		q.Scope = ScopePublicOrOwn
		q.ViewerID = v.UserID
	}
	return q
}

// Category 分类页：该分类下的公开文章
func Category(categoryID uint64, now time.Time, page int) PostQuery {
	return PostQuery{Scope: ScopePublic, CategoryID: &categoryID, Now: now, Page: page, PageSize: PageSize}
}

// Profile 个人主页：本人看全部，其他人只看公开文章
func Profile(ownerID uint64, v access.Viewer, now time.Time, page int) PostQuery {
	q := PostQuery{Scope: ScopePublic, AuthorID: &ownerID, Now: now, Page: page, PageSize: PageSize}
	if v.Is(ownerID) {
		q.Scope = ScopeAll
		q.ViewerID = v.UserID
	}
	return q
}
