package access

import (
	"time"

	"blogicum/internal/model"
)

// PostState 可见性判断所需的文章字段
type PostState struct {
	AuthorID    uint64
	IsPublished bool
	PubDate     time.Time
	// nil 表示文章没有分类
	CategoryPublished *bool
}

// StateOf 从已加载 Category 的文章取出可见性字段
func StateOf(p *model.Post) PostState {
	st := PostState{
		AuthorID:    p.AuthorID,
		IsPublished: p.IsPublished,
		PubDate:     p.PubDate,
	}
	if p.CategoryID != nil && p.Category != nil {
		published := p.Category.IsPublished
		st.CategoryPublished = &published
	}
	return st
}

// IsPublic 与访问者无关的公开条件：已发布、发布时间已到、分类为空或已发布。
// 地点的发布状态不参与判断。
func IsPublic(st PostState, now time.Time) bool {
	if !st.IsPublished {
		return false
	}
	if st.PubDate.After(now) {
		return false
	}
	return st.CategoryPublished == nil || *st.CategoryPublished
}

// IsVisibleTo 作者总能看到自己的文章；其他人只能看到公开文章
func IsVisibleTo(v Viewer, st PostState, now time.Time) bool {
	if v.Is(st.AuthorID) {
		return true
	}
	return IsPublic(st, now)
}
