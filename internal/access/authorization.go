package access

// Decision 修改操作被拒绝时的处理方式
type Decision int

const (
	Allowed Decision = iota
	RedirectLogin
	RedirectDetail
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDetail:
		return "redirect_detail"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// CanMutate 仅作者本人可编辑/删除，管理员也不例外
func CanMutate(v Viewer, authorID uint64) bool {
	return v.Is(authorID)
}

// CanCreate 发文与评论只要求已登录
func CanCreate(v Viewer) bool {
	return v.IsAuthenticated()
}

// PostDecision 文章编辑/删除：匿名去登录页，非作者静默回到详情页
func PostDecision(v Viewer, authorID uint64) Decision {
	switch {
	case !v.IsAuthenticated():
		return RedirectLogin
	case !CanMutate(v, authorID):
		return RedirectDetail
	}
	return Allowed
}

// CommentDecision 评论编辑/删除：匿名去登录页，非作者 403
func CommentDecision(v Viewer, authorID uint64) Decision {
	switch {
	case !v.IsAuthenticated():
		return RedirectLogin
	case !CanMutate(v, authorID):
		return Forbidden
	}
	return Allowed
}
