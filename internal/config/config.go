package config

import "os"

// Getenv returns the value of key or fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// JWTSecret is the HS256 signing key for session tokens.
func JWTSecret() []byte {
	return []byte(Getenv("JWT_SECRET", "secret"))
}
