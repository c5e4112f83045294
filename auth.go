package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (a *API) generateToken(u *User, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (a *API) parseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (a *API) issueTokens(u *User) (tokenPair, error) {
	access, err := a.generateToken(u, a.cfg.AccessSecret, a.cfg.AccessExpiry)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := a.generateToken(u, a.cfg.RefreshSecret, a.cfg.RefreshExpiry)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(a.cfg.AccessExpiry.Seconds()),
	}, nil
}

// ========================
// AUTH HANDLERS
// ========================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1"`
}

type authResponse struct {
	User *UserSummary `json:"user"`
	tokenPair
}

func (a *API) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		failValidation(c, err)
		return
	}

	var existing User
	if err := a.db.Where("email = ?", body.Email).First(&existing).Error; err == nil {
		a.fail(c, errBadRequest("Email already registered"))
		return
	} else if err != gorm.ErrRecordNotFound {
		a.fail(c, err)
		return
	}

	hashed, err := HashPassword(body.Password)
	if err != nil {
		a.fail(c, err)
		return
	}

	// New accounts start as problem solvers; only an admin promotes roles.
	user := User{
		Email:    body.Email,
		Password: hashed,
		Name:     body.Name,
		Role:     RoleProblemSolver,
	}
	if err := a.db.Create(&user).Error; err != nil {
		a.fail(c, errBadRequest("Email already registered"))
		return
	}

	tokens, err := a.issueTokens(&user)
	if err != nil {
		a.fail(c, err)
		return
	}
	respondCreated(c, authResponse{User: summarize(&user), tokenPair: tokens})
}

func (a *API) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		failValidation(c, err)
		return
	}

	var user User
	if err := a.db.Where("email = ?", body.Email).First(&user).Error; err != nil {
		a.fail(c, errUnauthorized("Invalid credentials"))
		return
	}

	if !CheckPasswordHash(body.Password, user.Password) {
		a.fail(c, errUnauthorized("Invalid credentials"))
		return
	}

	tokens, err := a.issueTokens(&user)
	if err != nil {
		a.fail(c, err)
		return
	}
	respondOK(c, authResponse{User: summarize(&user), tokenPair: tokens})
}

func (a *API) Refresh(c *gin.Context) {
	var body RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		failValidation(c, err)
		return
	}

	claims, err := a.parseToken(body.RefreshToken, a.cfg.RefreshSecret)
	if err != nil {
		a.fail(c, errUnauthorized("Invalid refresh token"))
		return
	}

	// Re-load the user so a role change or deletion invalidates old tokens.
	var user User
	if err := a.db.First(&user, claims.UserID).Error; err != nil {
		a.fail(c, errUnauthorized("User not found"))
		return
	}

	tokens, err := a.issueTokens(&user)
	if err != nil {
		a.fail(c, err)
		return
	}
	respondOK(c, authResponse{User: summarize(&user), tokenPair: tokens})
}

func (a *API) Me(c *gin.Context) {
	var user User
	if err := a.db.First(&user, currentUserID(c)).Error; err != nil {
		a.fail(c, errUnauthorized("User not found"))
		return
	}
	respondOK(c, summarize(&user))
}

func (a *API) UpdateProfile(c *gin.Context) {
	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		failValidation(c, err)
		return
	}

	var user User
	if err := a.db.First(&user, currentUserID(c)).Error; err != nil {
		a.fail(c, errUnauthorized("User not found"))
		return
	}

	if body.Name != nil {
		user.Name = *body.Name
	}
	if err := a.db.Save(&user).Error; err != nil {
		a.fail(c, err)
		return
	}
	respondOK(c, summarize(&user))
}
