// Package access 决定某个访问者能看到哪些文章/评论，以及能否修改它们。
// 所有判断都是 (viewer, entity, now) 的纯函数，不读取请求上下文。
package access

// Viewer 当前请求的身份；UserID 为 0 表示匿名
type Viewer struct {
	UserID uint64
	Role   int
}

var Anonymous = Viewer{}

func (v Viewer) IsAuthenticated() bool {
	return v.UserID != 0
}

// Is 已登录且就是 userID 本人
func (v Viewer) Is(userID uint64) bool {
	return v.IsAuthenticated() && v.UserID == userID
}
