package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const testClientID = "client-id.apps.googleusercontent.com"

type authFixture struct {
	clock    *fakeClock
	admins   *mocks.MockAdminRepository
	citizens *mocks.MockCitizenDirectory
	verifier *mocks.MockTokenVerifier
	identity *mocks.MockIdentityVerifier
	svc      ports.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &authFixture{
		clock:    newFakeClock(),
		admins:   mocks.NewMockAdminRepository(ctrl),
		citizens: mocks.NewMockCitizenDirectory(ctrl),
		verifier: mocks.NewMockTokenVerifier(ctrl),
		identity: mocks.NewMockIdentityVerifier(ctrl),
	}
	f.svc = NewAuthService(f.admins, f.citizens, f.verifier, f.identity, AuthConfig{
		JWTSecret:      []byte("jwt-secret"),
		GoogleClientID: testClientID,
		AdminEmails:    []string{" Admin@Example.com ", ""},
	}, WithClock(f.clock), WithLogger(discardLogger()))
	return f
}

func TestAuth_LoginAdminCreatesAccountOnFirstLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	var created *domain.Admin
	f.verifier.EXPECT().Verify(gomock.Any(), "google-token", testClientID).
		Return(&ports.TokenPayload{Email: "ADMIN@example.com", Name: "Admin"}, nil)
	f.admins.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(nil, nil)
	f.admins.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Admin) error {
		created = a
		return nil
	})
	f.admins.EXPECT().TouchLogin(gomock.Any(), gomock.Any()).Return(nil)

	token, err := f.svc.LoginAdmin(ctx, "google-token")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "admin@example.com", created.Email)

	claims, err := f.svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, created.ID, claims.Subject)
	assert.Equal(t, uuid.Nil, claims.CitizenID)
}

func TestAuth_LoginAdminRejections(t *testing.T) {
	t.Run("invalid google token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.verifier.EXPECT().Verify(gomock.Any(), "bad", testClientID).Return(nil, assert.AnError)

		_, err := f.svc.LoginAdmin(context.Background(), "bad")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("email not allowed", func(t *testing.T) {
		f := newAuthFixture(t)
		f.verifier.EXPECT().Verify(gomock.Any(), "token", testClientID).
			Return(&ports.TokenPayload{Email: "someone@example.com"}, nil)

		_, err := f.svc.LoginAdmin(context.Background(), "token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuth_AuthenticateVoter(t *testing.T) {
	citizen := &domain.Citizen{ID: uuid.New(), NID: "1990-0001", Name: "Voter"}
	image := []byte("live-image")

	t.Run("match issues a short voter session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.citizens.EXPECT().GetByNID(gomock.Any(), citizen.NID).Return(citizen, nil)
		f.identity.EXPECT().VerifyIdentity(gomock.Any(), citizen.ID, image).Return(true, nil)

		token, err := f.svc.AuthenticateVoter(context.Background(), " 1990-0001 ", image)
		require.NoError(t, err)

		claims, err := f.svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVoter, claims.Role)
		assert.Equal(t, citizen.ID, claims.CitizenID)

		f.clock.Advance(6 * time.Minute)
		_, err = f.svc.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("mismatch is unauthorized", func(t *testing.T) {
		f := newAuthFixture(t)
		f.citizens.EXPECT().GetByNID(gomock.Any(), citizen.NID).Return(citizen, nil)
		f.identity.EXPECT().VerifyIdentity(gomock.Any(), citizen.ID, image).Return(false, nil)

		_, err := f.svc.AuthenticateVoter(context.Background(), citizen.NID, image)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("verifier failure fails closed", func(t *testing.T) {
		f := newAuthFixture(t)
		f.citizens.EXPECT().GetByNID(gomock.Any(), citizen.NID).Return(citizen, nil)
		f.identity.EXPECT().VerifyIdentity(gomock.Any(), citizen.ID, image).Return(true, assert.AnError)

		_, err := f.svc.AuthenticateVoter(context.Background(), citizen.NID, image)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown citizen", func(t *testing.T) {
		f := newAuthFixture(t)
		f.citizens.EXPECT().GetByNID(gomock.Any(), "missing").Return(nil, domain.ErrCitizenNotFound)

		_, err := f.svc.AuthenticateVoter(context.Background(), "missing", image)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing input", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.AuthenticateVoter(context.Background(), "", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuth_ParseTokenRejectsForeignTokens(t *testing.T) {
	f := newAuthFixture(t)

	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := f.clock.Now().Add(time.Minute).Unix()

	cases := map[string]string{
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": uuid.NewString(), "role": "admin", "exp": exp}),
		"wrong method": sign(jwt.SigningMethodHS512, []byte("jwt-secret"), jwt.MapClaims{"sub": uuid.NewString(), "role": "admin", "exp": exp}),
		"unknown role": sign(jwt.SigningMethodHS256, []byte("jwt-secret"), jwt.MapClaims{"sub": uuid.NewString(), "role": "root", "exp": exp}),
		"bad subject":  sign(jwt.SigningMethodHS256, []byte("jwt-secret"), jwt.MapClaims{"sub": "nope", "role": "admin", "exp": exp}),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ParseToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
