package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"bookstore/internal/domain"
	"bookstore/internal/repos"
)

var ErrBadCreds = errors.New("invalid credentials")

const (
	tokenIssuer = "bookstore"
	roleAdmin   = "admin"
)

// AdminClaims is the payload of an admin access token.
type AdminClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService checks admin credentials and issues/verifies HS256 access tokens.
type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Login verifies the admin's password and returns a signed token.
func (s *AuthService) Login(username, password string) (string, *domain.User, error) {
	u, err := s.Users.ByName(username)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	if u.Role != domain.RoleAdmin {
		return "", nil, ErrBadCreds
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// IssueToken signs an admin token for u that expires after TTL.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.Now()
	claims := AdminClaims{
		Name: u.Name,
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tok, nil
}

// Authorize is the admin gate. An empty token is ErrUnauthorized; anything
// that is not an unexpired HS256 token signed with Secret and carrying the
// admin role is ErrForbidden.
func (s *AuthService) Authorize(token string) (*AdminClaims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrForbidden, err.Error())
	}
	if claims.Role != roleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}
