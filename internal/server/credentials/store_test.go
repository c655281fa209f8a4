package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDefault_Verify(t *testing.T) {
	s := Default()

	tests := []struct {
		name     string
		user     string
		password string
		ok       bool
	}{
		{"tota", "tota", "password123", true},
		{"alice", "alice", "donthackme", true},
		{"bob", "bob", "qwerty", true},
		{"wrong password", "tota", "wrong", false},
		{"unknown name", "mallory", "password123", false},
		{"case sensitive name", "Tota", "password123", false},
		{"other user's password", "bob", "donthackme", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := s.Verify(tt.user, tt.password)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, e)
				assert.Equal(t, tt.user, e.Name)
			} else {
				assert.Nil(t, e)
			}
		})
	}
}

func TestVerify_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	s := New(Entry{Name: "carol", Password: string(hash)})

	e, ok := s.Verify("carol", "s3cret")
	require.True(t, ok)
	assert.Equal(t, "carol", e.Name)

	_, ok = s.Verify("carol", "nope")
	assert.False(t, ok)
}

func TestVerify_UppercaseHexAccepted(t *testing.T) {
	s := New(Entry{Name: "dave", Password: "65E84BE33532FB784C48129675F9EFF3A682B27168C0EA744B2CF58EE02337C5"})

	_, ok := s.Verify("dave", "qwerty")
	assert.True(t, ok)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, isBcrypt(hash))

	_, ok := New(Entry{Name: "eve", Password: hash}).Verify("eve", "hunter22")
	assert.True(t, ok)
}

func TestHashSHA256(t *testing.T) {
	assert.Equal(t, "65e84be33532fb784c48129675f9eff3a682b27168c0ea744b2cf58ee02337c5", HashSHA256("qwerty"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"name":"zoe","password":"`+HashSHA256("pw")+`"}]`), 0o600))

	s, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Verify("zoe", "pw")
	assert.True(t, ok)
	// The file replaces the built-in set.
	_, ok = s.Verify("tota", "password123")
	assert.False(t, ok)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = LoadFile(bad)
	require.ErrorContains(t, err, "parse credentials")

	blank := filepath.Join(dir, "blank.json")
	require.NoError(t, os.WriteFile(blank, []byte(`[{"name":"","password":"x"}]`), 0o600))
	_, err = LoadFile(blank)
	require.ErrorContains(t, err, "entry 0")

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "read credentials")
}
