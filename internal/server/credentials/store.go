// Package credentials checks a name and plaintext password against a fixed
// set of (name, password hash) entries. Entries are unrelated to the managed
// User records.
package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Entry is one credential. Password holds either the lowercase hex SHA-256
// of the plaintext or a bcrypt hash.
type Entry struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Store is read-only after construction and safe for concurrent use.
type Store struct {
	entries []Entry
}

// builtin is the demo set served when no credentials file is configured.
var builtin = []Entry{
	{Name: "tota", Password: "ef92b778bafe771e89245b89ecbc08a44a4e166c06659911881f383d4473e94f"},
	{Name: "alice", Password: "c2cc2c090c309752ed8acf450c87c9697ae7b925273e3e2bbb38e4d80656f993"},
	{Name: "bob", Password: "65e84be33532fb784c48129675f9eff3a682b27168c0ea744b2cf58ee02337c5"},
}

func New(entries ...Entry) *Store {
	return &Store{entries: append([]Entry(nil), entries...)}
}

// Default returns the built-in demo set.
func Default() *Store {
	return New(builtin...)
}

// LoadFile reads a JSON array of entries. The result replaces the built-in
// set rather than extending it.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}

	for i, e := range entries {
		if e.Name == "" || e.Password == "" {
			return nil, fmt.Errorf("credentials %s: entry %d has an empty name or password", path, i)
		}
	}

	return New(entries...), nil
}

// Verify returns the entry whose name equals name exactly and whose hash
// matches password. The second result is false when nothing matches.
func (s *Store) Verify(name, password string) (*Entry, bool) {
	var sum string
	for i := range s.entries {
		e := s.entries[i]
		if e.Name != name {
			continue
		}
		if isBcrypt(e.Password) {
			if bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password)) == nil {
				return &e, true
			}
			continue
		}
		if sum == "" {
			sum = HashSHA256(password)
		}
		if subtle.ConstantTimeCompare([]byte(sum), []byte(strings.ToLower(e.Password))) == 1 {
			return &e, true
		}
	}
	return nil, false
}

// Len reports the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// HashSHA256 returns the lowercase hex SHA-256 digest of plain.
func HashSHA256(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}

// HashPassword returns a bcrypt hash suitable for a credentials file.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
