package accountstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers"
	"github.com/darmiel/mcauth/internal/providers/mojang"
)

func newTestStore(t *testing.T) (*Store, *mojang.Type) {
	t.Helper()
	typ := mojang.NewType(nil)
	registry, err := providers.NewRegistry(typ)
	require.NoError(t, err)
	return New(filepath.Join(t.TempDir(), "nested", "accounts.json"), registry), typ
}

func newAccount(typ *mojang.Type, username string) *mojang.Account {
	acc := typ.Create().(*mojang.Account)
	acc.SetToken(mojang.TokenLoginUsername, username)
	acc.SetClientToken("client-" + username)
	acc.SetAccessToken("access-" + username)
	acc.SetProfiles([]mojang.Profile{
		mojang.NewProfile("id-"+username, username, false),
	})
	acc.SetCurrentProfile("id-" + username)
	return acc
}

func writeFile(t *testing.T, s *Store, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0700))
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0600))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	list, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
	assert.Nil(t, list.Active())
}

func TestStore_RoundTrip(t *testing.T) {
	s, typ := newTestStore(t)

	list := &AccountList{}
	list.Add(newAccount(typ, "alex"))
	list.Add(newAccount(typ, "steve"))
	require.NoError(t, list.SetActive("steve"))
	require.NoError(t, s.Save(list))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	active := loaded.Active()
	require.NotNil(t, active)
	assert.Equal(t, "steve", active.LoginUsername())

	alex := loaded.Find("alex")
	require.NotNil(t, alex)
	assert.Equal(t, mojang.TypeID, alex.Type().ID())
	assert.Equal(t, "access-alex", alex.AccessToken())
	assert.Equal(t, "client-alex", alex.ClientToken())
	assert.Equal(t, core.StatusVerified, alex.Status())
	current, ok := alex.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "id-alex", current.ID())

	// accounts keep their order
	accounts := loaded.Accounts()
	assert.Equal(t, "alex", accounts[0].LoginUsername())
	assert.Equal(t, "steve", accounts[1].LoginUsername())
}

func TestStore_LoadLegacyFile(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s, `{
  "formatVersion": 2,
  "active": "alex@example.com",
  "accounts": [
    {
      "username": "alex@example.com",
      "clientToken": "client",
      "accessToken": "access",
      "activeProfile": "p1",
      "profiles": [
        {"id": "p1", "name": "Alex", "legacy": false}
      ],
      "user": {"id": "u1", "properties": [{"name": "preferredLanguage", "value": "en"}]}
    }
  ]
}`)

	list, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())

	acc := list.Active()
	require.NotNil(t, acc)
	assert.Equal(t, "alex@example.com", acc.LoginUsername())
	assert.Equal(t, "access", acc.AccessToken())
	assert.Equal(t, "client", acc.ClientToken())
	assert.Equal(t, 0, acc.IndexOf("p1"))

	// saving upgrades the file
	require.NoError(t, s.Save(list))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"formatVersion": 3`)
	assert.Contains(t, string(data), `"type": "mojang"`)
	assert.Contains(t, string(data), `"tokens"`)
}

func TestStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		isFormat bool
	}{
		{
			name:    "not json",
			content: `accounts`,
		},
		{
			name:     "unsupported version",
			content:  `{"formatVersion": 1, "accounts": []}`,
			isFormat: true,
		},
		{
			name:     "missing type in current format",
			content:  `{"formatVersion": 3, "accounts": [{"tokens": {}, "profiles": []}]}`,
			isFormat: true,
		},
		{
			name:     "unknown provider",
			content:  `{"formatVersion": 3, "accounts": [{"type": "msa", "tokens": {}, "profiles": []}]}`,
			isFormat: true,
		},
		{
			name: "one malformed account",
			content: `{"formatVersion": 3, "accounts": [
				{"type": "mojang", "tokens": {"login_username": "ok"}, "profiles": []},
				{"type": "mojang", "tokens": {"login_username": 5}, "profiles": []}
			]}`,
			isFormat: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			writeFile(t, s, tt.content)

			list, err := s.Load()
			require.Error(t, err)
			assert.Nil(t, list)
			if tt.isFormat {
				assert.ErrorIs(t, err, core.ErrFormat)
			}
		})
	}
}

func TestStore_DanglingActive(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s, `{"formatVersion": 3, "active": "ghost", "accounts": [
		{"type": "mojang", "tokens": {"login_username": "alex"}, "profiles": []}
	]}`)

	list, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
	assert.Nil(t, list.Active())
}

func TestAccountList(t *testing.T) {
	typ := mojang.NewType(nil)
	list := &AccountList{}

	list.Add(newAccount(typ, "alex"))
	list.Add(newAccount(typ, "steve"))
	assert.Equal(t, 2, list.Len())
	assert.Nil(t, list.Find("nobody"))

	// same login username replaces
	replacement := newAccount(typ, "alex")
	replacement.SetAccessToken("")
	list.Add(replacement)
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, core.StatusNotVerified, list.Find("alex").Status())

	assert.ErrorIs(t, list.SetActive("nobody"), ErrAccountNotFound)
	require.NoError(t, list.SetActive("alex"))
	assert.Equal(t, "alex", list.Active().LoginUsername())

	// the returned slice is a copy
	accounts := list.Accounts()
	accounts[0] = nil
	assert.NotNil(t, list.Accounts()[0])

	require.NoError(t, list.Remove("alex"))
	assert.Nil(t, list.Active())
	assert.Equal(t, 1, list.Len())
	assert.ErrorIs(t, list.Remove("alex"), ErrAccountNotFound)
}
