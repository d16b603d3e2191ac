package cache

import (
	"fmt"
)

type EntityType string

const (
	EntityAccount EntityType = "account"
)

type KeyType string

const (
	KeyProfile KeyType = "profile"
	KeyVersion KeyType = "version"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// AccountProfileKey is the key of the cached display projection of an account.
func AccountProfileKey(accountID string) string {
	return GenerateKey(EntityAccount, KeyProfile, accountID)
}

// AccountVersionKey holds the newest committed account version seen by the cache.
func AccountVersionKey(accountID string) string {
	return GenerateKey(EntityAccount, KeyVersion, accountID)
}

// InvalidateAccountKeys lists every key derived from an account.
func InvalidateAccountKeys(accountID string) []string {
	return []string{
		AccountProfileKey(accountID),
	}
}
