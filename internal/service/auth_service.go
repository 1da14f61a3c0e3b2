package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"herbal-store/internal/model"
	"herbal-store/pkg/apierror"
)

// maxActiveSessions caps the number of live refresh tokens (~devices) per user.
const maxActiveSessions = 5

// refreshSecretBytes is the entropy of a raw refresh token before encoding.
const refreshSecretBytes = 48

// UserStore is the slice of user persistence the auth flows need.
// Implemented by repository.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRole(ctx context.Context, role string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

// RefreshTokenStore persists hashed refresh tokens.
// Implemented by repository.TokenRepository.
type RefreshTokenStore interface {
	Create(ctx context.Context, rec model.RefreshTokenRecord, maxSessions int) error
	Consume(ctx context.Context, tokenHash string) (string, error)
	Remove(ctx context.Context, tokenHash string) error
	RemoveAll(ctx context.Context, userID string) error
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      UserStore
	tokens     RefreshTokenStore
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users UserStore, tokens RefreshTokenStore) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
	}
}

// Register creates a customer account and signs it in. Validation happens
// before any storage access; a taken email fails with a message naming the
// conflict.
func (s *AuthService) Register(ctx context.Context, name string, email string, password string, meta model.DeviceMeta) (model.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return model.Session{}, apierror.New("BAD_REQUEST", "Name, email and password are required", "", http.StatusBadRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Session{}, apierror.New("BAD_REQUEST", "Invalid email address", "email", http.StatusBadRequest)
	}
	if len(password) < 6 {
		return model.Session{}, apierror.New("BAD_REQUEST", "Password must be at least 6 characters", "password", http.StatusBadRequest)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Session{}, err
	}
	if exists {
		return model.Session{}, apierror.New("ALREADY_EXISTS", "An account with this email already exists", "email", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.Session{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.Session{}, err
	}

	return s.issueSession(ctx, user, meta)
}

// Login answers with one generic failure for both unknown email and wrong
// password so the response never reveals which part was wrong.
func (s *AuthService) Login(ctx context.Context, email string, password string, meta model.DeviceMeta) (model.Session, error) {
	invalid := apierror.New("UNAUTHORIZED", "Invalid email or password", "", http.StatusUnauthorized)

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, invalid
	}
	if err != nil {
		return model.Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.Session{}, invalid
	}

	return s.issueSession(ctx, user, meta)
}

// Refresh spends the presented refresh token and, if it was live, rotates the
// whole pair. A replayed token finds no record and fails here.
func (s *AuthService) Refresh(ctx context.Context, rawToken string, meta model.DeviceMeta) (model.Session, error) {
	invalid := apierror.New("UNAUTHORIZED", "Invalid or expired refresh token", "", http.StatusUnauthorized)

	userID, err := s.tokens.Consume(ctx, hashToken(rawToken))
	if errors.Is(err, model.ErrTokenNotFound) {
		return model.Session{}, invalid
	}
	if err != nil {
		return model.Session{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, invalid
	}
	if err != nil {
		return model.Session{}, err
	}

	return s.issueSession(ctx, user, meta)
}

// Logout removes the single refresh token record, if any. Idempotent.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return s.tokens.Remove(ctx, hashToken(rawToken))
}

// LogoutAll revokes every refresh token the user holds. Idempotent.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.tokens.RemoveAll(ctx, userID)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.PublicUser{}, apierror.New("NOT_FOUND", "User not found", userID, http.StatusNotFound)
	}
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// EnsureAdmin creates a bootstrap administrator if none exists yet. No-op
// when credentials are not configured or an admin is already present.
func (s *AuthService) EnsureAdmin(ctx context.Context, name string, email string, password string) error {
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.users.ExistsByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// VerifyAccessToken validates a bearer token and returns its claims. Bad
// signature, expiry and a non-"access" typ all collapse to the same failure.
func (s *AuthService) VerifyAccessToken(tokenString string) (*model.AuthClaims, error) {
	invalid := apierror.New("TOKEN_INVALID", "Invalid or expired token", "", http.StatusUnauthorized)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, invalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, invalid
	}

	typ, _ := claimsMap["typ"].(string)
	if typ != "access" {
		return nil, invalid
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, invalid
	}

	return claims, nil
}

// RefreshTTL tells the handler how long the refresh cookie should live.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// issueSession mints the access token and a fresh refresh token, persisting
// only the hash of the latter along with the device metadata.
func (s *AuthService) issueSession(ctx context.Context, user model.User, meta model.DeviceMeta) (model.Session, error) {
	now := time.Now().UTC()

	accessToken, err := s.signAccessToken(user, now)
	if err != nil {
		return model.Session{}, err
	}

	rawRefresh, err := newRefreshSecret()
	if err != nil {
		return model.Session{}, err
	}

	record := model.RefreshTokenRecord{
		TokenHash: hashToken(rawRefresh),
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, record, maxActiveSessions); err != nil {
		return model.Session{}, err
	}

	return model.Session{
		User:         user.Public(),
		AccessToken:  accessToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		RefreshToken: rawRefresh,
	}, nil
}

func (s *AuthService) signAccessToken(user model.User, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"typ":  "access",
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func newRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
