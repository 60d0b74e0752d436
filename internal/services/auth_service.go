package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier verifies Firebase ID tokens; *auth.Client satisfies it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var usernameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// AuthService handles signup, login and profile reads
type AuthService struct {
	users     repositories.UserRepository
	follows   repositories.FollowRepository
	verifier  TokenVerifier
	jwtSecret []byte
	jwtExpiry time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(users repositories.UserRepository, follows repositories.FollowRepository, verifier TokenVerifier, jwtSecret string, jwtExpiry time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		follows:   follows,
		verifier:  verifier,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		logger:    logger,
		now:       time.Now,
	}
}

func defaultAvatar(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random"
}

// Signup registers a local account and returns a token for it
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	username, err := requireText(req.Username, "Username", 30)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperrors.InvalidInput("Email is required")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.InvalidInput("Password must be at least 6 characters")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("User with this email already registered")
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperrors.Conflict("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "hash password")
	}
	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Avatar:   defaultAvatar(username),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(ctx, user)
}

// Login checks email and password
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated("Invalid credentials")
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	return s.authResponse(ctx, user)
}

// FirebaseLogin verifies a Firebase ID token and issues a local token. The account is found by
// firebase uid, then by email (linking the uid), and is created on first login.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.verifier == nil {
		return nil, apperrors.Unauthenticated("Firebase login is not configured")
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, err, "Invalid Firebase ID token")
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return s.authResponse(ctx, user)
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.InvalidInput("Firebase account has no email")
	}
	uid := token.UID

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		user.FirebaseUID = &uid
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	case apperrors.KindOf(err) == apperrors.KindNotFound:
		name, _ := token.Claims["name"].(string)
		username, err := s.freeUsername(ctx, name, email)
		if err != nil {
			return nil, err
		}
		avatar, _ := token.Claims["picture"].(string)
		if avatar == "" {
			avatar = defaultAvatar(username)
		}
		user = &models.User{Username: username, Email: email, Avatar: avatar, FirebaseUID: &uid}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("created user from firebase login", zap.String("user", user.ID))
	default:
		return nil, err
	}
	return s.authResponse(ctx, user)
}

// freeUsername derives an unused username from the display name or email
func (s *AuthService) freeUsername(ctx context.Context, name, email string) (string, error) {
	base := usernameUnsafe.ReplaceAllString(name, "")
	if base == "" {
		base = usernameUnsafe.ReplaceAllString(strings.SplitN(email, "@", 2)[0], "")
	}
	if base == "" {
		base = "user"
	}
	if len(base) > 20 {
		base = base[:20]
	}

	candidate := base
	for i := 0; i < 5; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + "_" + uuid.NewString()[:8]
	}
	return "", apperrors.Conflict("Could not allocate a username")
}

func (s *AuthService) authResponse(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}
	profile, err := buildProfile(ctx, s.follows, user, "")
	if err != nil {
		return nil, err
	}
	profile.Email = user.Email
	return &models.AuthResponse{Token: token, User: *profile}, nil
}

// GenerateJWT signs an HS256 token carrying the user id and username
func (s *AuthService) GenerateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal(err, "sign token")
	}
	return signed, nil
}

// Me returns the caller's own profile, including email
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := buildProfile(ctx, s.follows, user, "")
	if err != nil {
		return nil, err
	}
	profile.Email = user.Email
	return profile, nil
}

// GetProfile returns a public profile by username, as seen by viewerID
func (s *AuthService) GetProfile(ctx context.Context, username, viewerID string) (*models.UserProfile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return buildProfile(ctx, s.follows, user, viewerID)
}

func buildProfile(ctx context.Context, follows repositories.FollowRepository, user *models.User, viewerID string) (*models.UserProfile, error) {
	followers, err := follows.GetFollowersCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := follows.GetFollowingCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile := &models.UserProfile{
		ID:             user.ID,
		Username:       user.Username,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		FollowersCount: followers,
		FollowingCount: following,
		CreatedAt:      user.CreatedAt,
	}
	if viewerID != "" && viewerID != user.ID {
		if profile.IsFollowing, err = follows.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
