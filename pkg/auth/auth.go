package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arnavshah/rostergen-go/pkg/database"
)

var signingMethod = jwt.SigningMethodHS256

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func masterSecret() []byte {
	return []byte(os.Getenv("API_MASTER_SECRET"))
}

// AdminClaims is the JWT payload for admin sessions.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateToken issues a 24h admin session token.
func CreateToken(username string) (string, error) {
	claims := &AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(jwtSecret())
}

// VerifyToken parses and validates an admin session token.
func VerifyToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// EnsureAdminExists creates the bootstrap admin account from environment
// variables when no admin exists yet.
func EnsureAdminExists(db *gorm.DB) error {
	var count int64
	db.Model(&database.MasterUser{}).Count(&count)
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	err = db.Create(&database.MasterUser{Username: username, PasswordHash: hash}).Error
	if err == nil {
		log.Printf("default admin user created: %s", username)
	}
	return err
}

// GenerateHMACKey creates a signed API key: the key name joined with its
// HMAC-SHA256 signature under the master secret.
func GenerateHMACKey(name string) string {
	h := hmac.New(sha256.New, masterSecret())
	h.Write([]byte(name))
	return name + "." + hex.EncodeToString(h.Sum(nil))
}

// VerifyHMACKey validates an HMAC-signed API key and returns the key name.
func VerifyHMACKey(key string) (string, error) {
	name, signature, ok := strings.Cut(key, ".")
	if !ok {
		return "", errors.New("invalid key format")
	}

	h := hmac.New(sha256.New, masterSecret())
	h.Write([]byte(name))
	expected := hex.EncodeToString(h.Sum(nil))

	// Constant-time comparison to prevent timing attacks.
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", errors.New("invalid signature")
	}
	return name, nil
}
