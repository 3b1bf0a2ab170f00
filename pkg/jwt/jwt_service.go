package jwt

import (
	"caltrack/domain"
	"caltrack/internal/utils"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, email string) string
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetAssertionByToken(token string) (domain.Assertion, error)
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Email  string `json:"email,omitempty"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "CALTRACK",
	}
}

func (j *jwtService) GenerateTokenUser(userId string, email string) string {
	claims := jwtUserClaim{
		userId,
		email,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 30)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userId,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return tx
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

// GetAssertionByToken turns a bearer token into a verified identity
// assertion for the resolver.
func (j *jwtService) GetAssertionByToken(token string) (domain.Assertion, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Assertion{}, domain.ErrTokenExpired
		}
		return domain.Assertion{}, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return domain.Assertion{}, domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	return domain.Assertion{Subject: claims.UserID, Email: claims.Email}, nil
}
