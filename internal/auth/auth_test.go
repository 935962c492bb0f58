package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/huadle/assets"
	"github.com/robalobadob/huadle/internal/database"
)

func testTokens() *Tokens {
	return &Tokens{Secret: []byte("test-secret"), TTL: time.Hour, CookieName: "tok"}
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("plum_01", "password1"))
	assert.Error(t, ValidateSignup("ab", "password1"))
	assert.Error(t, ValidateSignup("bad name", "password1"))
	assert.Error(t, ValidateSignup("goodname", "short"))
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("password1")
	require.NoError(t, err)

	assert.True(t, CheckPassword(h, "password1"))
	assert.False(t, CheckPassword(h, "password2"))
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := testTokens()

	tok, exp, err := tk.Sign("u1", "plum")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tk.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.ID)
	assert.Equal(t, "plum", c.Username)
}

func TestTokens_Rejects(t *testing.T) {
	tk := testTokens()
	tok, _, err := tk.Sign("u1", "plum")
	require.NoError(t, err)

	other := &Tokens{Secret: []byte("other"), TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &Tokens{Secret: tk.Secret, TTL: -time.Minute}
	old, _, err := expired.Sign("u1", "plum")
	require.NoError(t, err)
	_, err = tk.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tk.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_FromRequest(t *testing.T) {
	tk := testTokens()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", tk.FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "tok", Value: "xyz"})
	assert.Equal(t, "xyz", tk.FromRequest(r))

	assert.Equal(t, "", tk.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestTokens_Cookies(t *testing.T) {
	tk := testTokens()
	tk.Secure = true

	w := httptest.NewRecorder()
	tk.SetCookie(w, "abc", time.Now().Add(time.Hour))
	c := w.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "abc", c[0].Value)
	assert.True(t, c[0].HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, c[0].SameSite)

	w = httptest.NewRecorder()
	tk.ClearCookie(w)
	c = w.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, -1, c[0].MaxAge)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	users := NewUsers(db)

	u, err := users.Create(ctx, "  plum_01 ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "plum_01", u.Username)

	_, err = users.Create(ctx, "PLUM_01", "password1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	found, err := users.FindByUsername(ctx, "Plum_01")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, CheckPassword(found.PasswordHash, "password1"))

	require.NoError(t, users.RecordGameStarted(ctx, u.ID))
	require.NoError(t, users.RecordWin(ctx, u.ID))
	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, byID.GamesPlayed)
	assert.Equal(t, 1, byID.Wins)
	assert.Equal(t, 1, byID.Streak)

	_, err = db.Exec(`INSERT INTO games (id, user_id, target_id, started_at, status) VALUES ('g1', ?, 1, 'now', 'active')`, u.ID)
	require.NoError(t, err)
	require.NoError(t, users.RecordGameStarted(ctx, u.ID))
	byID, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, byID.Streak, "abandoned game breaks the streak")
}
