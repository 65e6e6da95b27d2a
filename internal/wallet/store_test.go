package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

const testPassphrase = "store-test-passphrase"

// storeUnderTest runs a subtest against both backends.
func storeUnderTest(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		fn(t, NewFileStore(t.TempDir(), testPassphrase))
	})
	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		fn(t, NewMemoryStore())
	})
}

func seedMaterial(t *testing.T) *keys.Material {
	t.Helper()
	return keys.FromSeed(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		"m/44'/60'/0'/0/0",
	)
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	s, err := NewStore(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(Options{Backend: BackendFile, Path: t.TempDir(), Passphrase: "p"})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = NewStore(Options{Backend: "etcd"})
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrUnknownStorageBackend))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		material := seedMaterial(t)
		require.NoError(t, s.Save(w, material))

		loaded, loadedMaterial, err := s.Load(w.AgentID, w.ID)
		require.NoError(t, err)
		assert.Equal(t, w.ID, loaded.ID)
		assert.Equal(t, w.Address, loaded.Address)
		assert.Equal(t, w.Method, loaded.Method)
		require.NotNil(t, loadedMaterial.Seed)
		assert.Equal(t, material.Seed.Phrase, loadedMaterial.Seed.Phrase)
		assert.Equal(t, material.Seed.Path, loadedMaterial.Seed.Path)
	})
}

func TestStore_SaveRejectsDuplicate(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		require.NoError(t, s.Save(w, seedMaterial(t)))

		err := s.Save(w, seedMaterial(t))
		require.Error(t, err)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrWalletExists))
	})
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		w.Address = ""
		require.Error(t, s.Save(w, seedMaterial(t)))

		w = validWallet(t)
		require.Error(t, s.Save(w, &keys.Material{})) // empty payload
	})
}

func TestStore_LoadMetadata(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		require.NoError(t, s.Save(w, seedMaterial(t)))

		loaded, err := s.LoadMetadata(w.AgentID, w.ID)
		require.NoError(t, err)
		assert.Equal(t, w.ID, loaded.ID)

		_, err = s.LoadMetadata(w.AgentID, "wlt_00000000000000000000000000000000")
		require.Error(t, err)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrWalletNotFound))
	})
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		require.NoError(t, s.Save(w, seedMaterial(t)))

		require.NoError(t, s.Delete(w.AgentID, w.ID))
		require.NoError(t, s.Delete(w.AgentID, w.ID)) // second delete is a no-op

		exists, err := s.Exists(w.AgentID, w.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStore_ListSortedAndAgentScoped(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		for i := 0; i < 3; i++ {
			w := validWallet(t)
			require.NoError(t, s.Save(w, seedMaterial(t)))
		}

		other := validWallet(t)
		other.AgentID = "agent-2"
		require.NoError(t, s.Save(other, seedMaterial(t)))

		wallets, err := s.List("agent-1")
		require.NoError(t, err)
		require.Len(t, wallets, 3)
		for i := 1; i < len(wallets); i++ {
			assert.Less(t, wallets[i-1].ID, wallets[i].ID)
		}
		for _, w := range wallets {
			assert.NotEqual(t, other.ID, w.ID)
		}

		wallets, err = s.List("agent-2")
		require.NoError(t, err)
		require.Len(t, wallets, 1)
		assert.Equal(t, other.ID, wallets[0].ID)

		wallets, err = s.List("agent-none")
		require.NoError(t, err)
		assert.Empty(t, wallets)
	})
}

func TestStore_CrossAgentLookupFails(t *testing.T) {
	t.Parallel()
	storeUnderTest(t, func(t *testing.T, s Store) {
		w := validWallet(t)
		require.NoError(t, s.Save(w, seedMaterial(t)))

		_, _, err := s.Load("agent-2", w.ID)
		require.Error(t, err)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrWalletNotFound))
	})
}

func TestFileStore_WrongPassphrase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := validWallet(t)
	require.NoError(t, NewFileStore(dir, "correct").Save(w, seedMaterial(t)))

	_, _, err := NewFileStore(dir, "wrong").Load(w.AgentID, w.ID)
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrDecryptionFailed))

	// Metadata stays readable without the passphrase
	loaded, err := NewFileStore(dir, "wrong").LoadMetadata(w.AgentID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Address, loaded.Address)
}

func TestFileStore_Layout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewFileStore(dir, testPassphrase)
	w := validWallet(t)
	require.NoError(t, s.Save(w, seedMaterial(t)))

	path := filepath.Join(dir, w.AgentID, w.ID+walletFileExtension)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(walletFilePermissions), info.Mode().Perm())

	// The mnemonic must never appear in plaintext on disk
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "abandon")
}

func TestFileStore_ListSkipsStrayFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewFileStore(dir, testPassphrase)
	w := validWallet(t)
	require.NoError(t, s.Save(w, seedMaterial(t)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, w.AgentID, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, w.AgentID, "wlt_0000000000000000000000000000dead.wallet"), []byte("{"), 0o600))

	wallets, err := s.List(w.AgentID)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, w.ID, wallets[0].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	w := validWallet(t)
	require.NoError(t, s.Save(w, seedMaterial(t)))

	// Mutating what Save was given must not change the stored record
	w.Address = "mutated"

	loaded, material, err := s.Load("agent-1", w.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", loaded.Address)

	// Mutating loaded values must not leak back either
	loaded.Chain = chain.SOL
	material.Seed.Phrase = "scrubbed"

	again, againMaterial, err := s.Load("agent-1", w.ID)
	require.NoError(t, err)
	assert.Equal(t, chain.ETH, again.Chain)
	assert.NotEqual(t, "scrubbed", againMaterial.Seed.Phrase)
}
