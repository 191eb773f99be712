package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"storefront/internal/mailer"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMailer struct {
	sent []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Role{}, &model.Permission{}, &model.Category{}, &model.Product{}))
	return db
}

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository, *fakeMailer, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	users := repository.NewUserRepository(db)
	mail := &fakeMailer{}
	signer := NewSigner([]byte("test-secret"), time.Hour)
	return NewAuthService(users, signer, mail), users, mail, db
}

func createAccount(t *testing.T, db *gorm.DB, email, password string) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Username: strings.Split(email, "@")[0],
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestLoginWrongPasswordIsForbidden(t *testing.T) {
	svc, _, _, db := newAuthFixture(t)
	createAccount(t, db, "jack@example.com", "correct-horse")

	res := svc.Login(context.Background(), LoginRequest{Email: "jack@example.com", Password: "wrong-horse"})

	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Nil(t, res.Payload, "no token may be issued")
}

func TestLoginUnknownEmailIsNotFound(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	res := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, _, db := newAuthFixture(t)
	createAccount(t, db, "jack@example.com", "correct-horse")

	res := svc.Login(context.Background(), LoginRequest{Email: "jack@example.com", Password: "correct-horse"})

	require.Equal(t, http.StatusOK, res.Status)
	token, ok := res.Payload.(string)
	require.True(t, ok)
	assert.NotEmpty(t, token)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	res := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestPasswordResetFlowSupersedesOlderToken(t *testing.T) {
	svc, users, mail, db := newAuthFixture(t)
	user := createAccount(t, db, "jack@example.com", "correct-horse")
	ctx := context.Background()

	require.Equal(t, http.StatusOK, svc.RequestPasswordReset(ctx, user.Email).Status)
	t1, err := users.TokenByID(ctx, user.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, t1)

	require.Equal(t, http.StatusOK, svc.RequestPasswordReset(ctx, user.Email).Status)
	t2, err := users.TokenByID(ctx, user.ID.String())
	require.NoError(t, err)
	require.NotEqual(t, t1, t2, "second reset must mint a distinct token")
	require.Len(t, mail.sent, 2)

	// The older token still carries a valid signature but has been superseded.
	assert.Equal(t, http.StatusUnauthorized, svc.ValidateToken(ctx, t1).Status)
	assert.Equal(t, http.StatusOK, svc.ValidateToken(ctx, t2).Status)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	svc, users, _, db := newAuthFixture(t)
	user := createAccount(t, db, "jack@example.com", "correct-horse")
	ctx := context.Background()

	require.Equal(t, http.StatusOK, svc.RequestPasswordReset(ctx, user.Email).Status)
	token, err := users.TokenByID(ctx, user.ID.String())
	require.NoError(t, err)

	res := svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:    user.Email,
		Password: "brand-new-pass",
		Token:    token,
	})
	require.Equal(t, http.StatusCreated, res.Status)

	// New password works, stored token is cleared, token can't be replayed.
	assert.Equal(t, http.StatusOK, svc.Login(ctx, LoginRequest{Email: user.Email, Password: "brand-new-pass"}).Status)

	stored, err := users.TokenByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, stored)

	replay := svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:    user.Email,
		Password: "yet-another-pass",
		Token:    token,
	})
	assert.Equal(t, http.StatusUnauthorized, replay.Status)
}

func TestResetPasswordWithForeignTokenIsInvalid(t *testing.T) {
	svc, _, _, db := newAuthFixture(t)
	user := createAccount(t, db, "jack@example.com", "correct-horse")
	ctx := context.Background()

	require.Equal(t, http.StatusOK, svc.RequestPasswordReset(ctx, user.Email).Status)

	otherSigner := NewSigner([]byte("other-secret"), time.Hour)
	forged, err := otherSigner.Sign(map[string]interface{}{"userId": user.ID.String(), "email": user.Email})
	require.NoError(t, err)

	res := svc.ResetPassword(ctx, ResetPasswordRequest{Email: user.Email, Password: "hacked-pass", Token: forged})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}
