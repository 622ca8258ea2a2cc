package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/redis"
	"blogicum/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopMailer struct{}

func (nopMailer) Send(string, string, string) error { return nil }

type env struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.NewRedis(t)
	r := InitRouter(Deps{DB: db, Mailer: nopMailer{}, Location: time.UTC, AllowedOrigins: []string{"*"}})
	return &env{t: t, db: db, r: r}
}

// token 直接签发并写入会话
func (e *env) token(u *model.User) string {
	e.t.Helper()
	pair, err := pkg.GeneratePair(u.ID, u.Role)
	require.NoError(e.t, err)
	require.NoError(e.t, (&redis.SessionRepository{}).Save(context.Background(), u.ID, pair.AccessToken, pair.RefreshToken))
	return pair.AccessToken
}

func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func listedIDs(t *testing.T, w *httptest.ResponseRecorder) []uint64 {
	t.Helper()
	var out struct {
		Posts []model.Post `json:"post_list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	ids := make([]uint64, 0, len(out.Posts))
	for _, p := range out.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestAnonymousCreateRedirectsToLogin(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/posts/", "", gin.H{"title": "t", "text": "x"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/posts/"), w.Header().Get("Location"))

	var n int64
	require.NoError(t, e.db.Model(&model.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreatePostRedirectsToProfile(t *testing.T) {
	e := newEnv(t)
	a := testutil.MakeUser(t, e.db, "alice")

	w := e.do(http.MethodPost, "/posts/", e.token(a), gin.H{"title": "Hello", "text": "world"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/profile/alice/", body["redirect"])
	assert.NotZero(t, body["id"])

	w = e.do(http.MethodPost, "/posts/", e.token(a), gin.H{"text": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decode(t, w)
	assert.Equal(t, pkg.CodeValidation, body["code"])
	assert.Contains(t, body["fields"], "title")
}

func TestFuturePostOnIndex(t *testing.T) {
	e := newEnv(t)
	a := testutil.MakeUser(t, e.db, "a")
	b := testutil.MakeUser(t, e.db, "b")
	tokenA := e.token(a)

	w := e.do(http.MethodPost, "/posts/", tokenA, gin.H{
		"title":    "X",
		"text":     "later",
		"pub_date": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint64(decode(t, w)["id"].(float64))

	w = e.do(http.MethodGet, "/", e.token(b), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, listedIDs(t, w), id)

	w = e.do(http.MethodGet, "/", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, listedIDs(t, w), id)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, fmt.Sprintf("/posts/%d/", id), "", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, fmt.Sprintf("/posts/%d/", id), tokenA, nil).Code)
}

func TestPostEditDenials(t *testing.T) {
	e := newEnv(t)
	a := testutil.MakeUser(t, e.db, "a")
	b := testutil.MakeUser(t, e.db, "b")
	p := testutil.MakePost(t, e.db, a)
	editURL := fmt.Sprintf("/posts/%d/edit/", p.ID)

	w := e.do(http.MethodGet, editURL, "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/"))

	w = e.do(http.MethodPost, editURL, e.token(b), gin.H{"title": "hacked", "text": "x"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), w.Header().Get("Location"))

	w = e.do(http.MethodPost, fmt.Sprintf("/posts/%d/delete/", p.ID), e.token(b), nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), w.Header().Get("Location"))

	w = e.do(http.MethodPost, editURL, e.token(a), gin.H{"title": "edited", "text": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), decode(t, w)["redirect"])

	w = e.do(http.MethodPost, fmt.Sprintf("/posts/%d/delete/", p.ID), e.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/profile/a/", decode(t, w)["redirect"])
}

func TestCommentFlow(t *testing.T) {
	e := newEnv(t)
	a := testutil.MakeUser(t, e.db, "a")
	b := testutil.MakeUser(t, e.db, "b")
	p := testutil.MakePost(t, e.db, a)

	w := e.do(http.MethodPost, fmt.Sprintf("/posts/%d/comment/", p.ID), e.token(a), gin.H{"text": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), decode(t, w)["redirect"])

	var c model.Comment
	require.NoError(t, e.db.First(&c).Error)
	assert.True(t, c.IsPublished)

	editURL := fmt.Sprintf("/posts/%d/comments/%d/edit/", p.ID, c.ID)
	w = e.do(http.MethodPost, editURL, e.token(b), gin.H{"text": "mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pkg.CodeForbidden, decode(t, w)["code"])

	w = e.do(http.MethodGet, fmt.Sprintf("/posts/%d/comments/%d/delete/", p.ID, c.ID), e.token(b), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, editURL, e.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/posts/%d/", p.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["comments"], 1)
	assert.EqualValues(t, 1, body["post"].(map[string]any)["comment_count"])

	w = e.do(http.MethodPost, fmt.Sprintf("/posts/%d/comments/%d/delete/", p.ID, c.ID), e.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListingsNotFound(t *testing.T) {
	e := newEnv(t)
	testutil.MakeCategory(t, e.db, "hidden", false)
	open := testutil.MakeCategory(t, e.db, "open", true)
	a := testutil.MakeUser(t, e.db, "a")
	testutil.MakePost(t, e.db, a, testutil.InCategory(open))

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/category/hidden/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/category/nope/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/profile/nobody/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/?page=abc", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/?page=2", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/posts/abc/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/no/such/route", "", nil).Code)

	w := e.do(http.MethodGet, "/category/open/?page=last", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "open", body["category"].(map[string]any)["slug"])
	assert.Len(t, body["post_list"], 1)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/profile/a/", "", nil).Code)
}

func TestAuthEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/auth/registration/", "", gin.H{
		"username": "zoe", "email": "zoe@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/auth/login/", decode(t, w)["redirect"])

	w = e.do(http.MethodPost, "/auth/login/", "", gin.H{"username": "zoe", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/auth/login/", "", gin.H{"username": "zoe", "password": "long-enough"})
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decode(t, w)
	assert.NotEmpty(t, tokens["access_token"])

	w = e.do(http.MethodPost, "/auth/token/refresh/", "", gin.H{"refresh_token": tokens["refresh_token"]})
	require.Equal(t, http.StatusOK, w.Code)
	access := decode(t, w)["access_token"].(string)

	w = e.do(http.MethodPost, "/profile/edit_profile/", access, gin.H{"username": "zoey", "email": "zoe@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/profile/zoey/", decode(t, w)["redirect"])

	w = e.do(http.MethodPost, "/auth/logout/", access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/auth/password_change/", access, gin.H{"old_password": "x", "new_password": "y"})
	assert.Equal(t, http.StatusFound, w.Code)

	w = e.do(http.MethodPost, "/auth/password_reset/", "", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCatalog(t *testing.T) {
	e := newEnv(t)
	user := testutil.MakeUser(t, e.db, "user")
	staff := &model.User{Username: "staff", Email: "staff@example.com", Password: "x", Role: model.RoleStaff}
	require.NoError(t, e.db.Create(staff).Error)

	body := gin.H{"title": "Travel", "description": "trips", "slug": "travel"}
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/admin/categories", "", body).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/admin/categories", e.token(user), body).Code)

	w := e.do(http.MethodPost, "/admin/categories", e.token(staff), gin.H{"title": "Bad", "description": "x", "slug": "not a slug"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "slug")

	w = e.do(http.MethodPost, "/admin/categories", e.token(staff), body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint64(decode(t, w)["id"].(float64))

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/category/travel/", "", nil).Code)

	w = e.do(http.MethodPut, fmt.Sprintf("/admin/categories/%d", id), e.token(staff), gin.H{
		"title": "Travel", "description": "trips", "slug": "travel", "is_published": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/category/travel/", "", nil).Code)

	w = e.do(http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), e.token(staff), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(http.MethodPost, "/admin/locations", e.token(staff), gin.H{"name": "Moscow"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodGet, "/", "", nil)
	w := e.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blogicum_http_requests_total")
}
