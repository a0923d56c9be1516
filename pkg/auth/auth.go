package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrInvalidKey is returned when an API key does not match any stored key
	ErrInvalidKey = errors.New("invalid API key")
	// ErrKeyExists is returned when adding a key under a name already in use
	ErrKeyExists = errors.New("API key already exists")
	// ErrKeyNotFound is returned when a named key is not found
	ErrKeyNotFound = errors.New("API key not found")
	// ErrPermissionDenied is returned when a key's role lacks a permission
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidRole is returned for unknown role names
	ErrInvalidRole = errors.New("invalid role")
)

const (
	saltLength     = 16
	iterationCount = 4096
	keyLength      = 32
	secretLength   = 24
)

// Role represents an API key role with associated permissions
type Role string

const (
	// RoleAdmin can also manage API keys
	RoleAdmin Role = "admin"
	// RoleReadWrite can stem, search and modify the corpus
	RoleReadWrite Role = "readWrite"
	// RoleRead can stem and search but not modify the corpus
	RoleRead Role = "read"
)

// Permission represents an operation permission
type Permission string

const (
	PermissionRead       Permission = "read"
	PermissionWrite      Permission = "write"
	PermissionViewStats  Permission = "viewStats"
	PermissionManageKeys Permission = "manageKeys"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin:     {PermissionRead, PermissionWrite, PermissionViewStats, PermissionManageKeys},
	RoleReadWrite: {PermissionRead, PermissionWrite, PermissionViewStats},
	RoleRead:      {PermissionRead, PermissionViewStats},
}

// ParseRole validates a role name. Empty means read.
func ParseRole(name string) (Role, error) {
	if name == "" {
		return RoleRead, nil
	}
	role := Role(name)
	if _, ok := rolePermissions[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
	return role, nil
}

// APIKey is a stored, hashed key. The secret itself is never kept.
type APIKey struct {
	Name      string
	Role      Role
	Salt      []byte
	StoredKey []byte
	CreatedAt time.Time
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// KeyStore holds named API keys
type KeyStore struct {
	mu   sync.RWMutex
	keys map[string]*APIKey
}

// NewKeyStore creates an empty key store
func NewKeyStore() *KeyStore {
	return &KeyStore{keys: make(map[string]*APIKey)}
}

// AddKey hashes secret and stores it under name.
func (ks *KeyStore) AddKey(name, secret string, role Role) error {
	if name == "" || secret == "" {
		return errors.New("key name and secret are required")
	}
	if _, ok := rolePermissions[role]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	key := &APIKey{
		Name:      name,
		Role:      role,
		Salt:      salt,
		StoredKey: deriveKey(secret, salt),
		CreatedAt: time.Now(),
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	if _, exists := ks.keys[name]; exists {
		return ErrKeyExists
	}
	ks.keys[name] = key
	return nil
}

// RemoveKey deletes the key stored under name.
func (ks *KeyStore) RemoveKey(name string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if _, exists := ks.keys[name]; !exists {
		return ErrKeyNotFound
	}
	delete(ks.keys, name)
	return nil
}

// Len returns the number of stored keys.
func (ks *KeyStore) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keys)
}

// KeyInfo describes a stored key without its hash.
type KeyInfo struct {
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Keys lists stored keys sorted by name.
func (ks *KeyStore) Keys() []KeyInfo {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	out := make([]KeyInfo, 0, len(ks.keys))
	for _, k := range ks.keys {
		out = append(out, KeyInfo{Name: k.Name, Role: k.Role, CreatedAt: k.CreatedAt})
	}
	slices.SortFunc(out, func(a, b KeyInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Authenticate checks secret against every stored key. Every key is
// compared so timing does not reveal which one matched.
func (ks *KeyStore) Authenticate(secret string) (*Principal, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	var match *APIKey
	for _, k := range ks.keys {
		if hmac.Equal(deriveKey(secret, k.Salt), k.StoredKey) && match == nil {
			match = k
		}
	}
	if match == nil {
		return nil, ErrInvalidKey
	}
	return &Principal{Name: match.Name, Role: match.Role}, nil
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(rolePermissions[role], permission)
}

// GenerateSecret returns a random URL-safe key secret.
func GenerateSecret() (string, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ParseAuthHeader parses an Authorization header (Bearer token)
func ParseAuthHeader(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func deriveKey(secret string, salt []byte) []byte {
	salted := pbkdf2.Key([]byte(secret), salt, iterationCount, keyLength, sha256.New)
	h := hmac.New(sha256.New, salted)
	h.Write([]byte("API Key"))
	sum := sha256.Sum256(h.Sum(nil))
	return sum[:]
}
