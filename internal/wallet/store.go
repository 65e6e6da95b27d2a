package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wardenhq/warden/internal/fileutil"
	"github.com/wardenhq/warden/internal/keys"
	"github.com/wardenhq/warden/internal/wardencrypto"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

const (
	// walletFileExtension is the extension for wallet files.
	walletFileExtension = ".wallet"

	// walletFilePermissions is the permission mode for wallet files.
	walletFilePermissions = 0o600

	// walletDirPermissions is the permission mode for agent directories.
	walletDirPermissions = 0o700
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Store persists wallet records and their encrypted key material,
// keyed by (agentID, walletID).
type Store interface {
	// Save writes a wallet and its key material. Fails with
	// ErrWalletExists when the (agentID, walletID) pair is taken.
	Save(w *Wallet, material *keys.Material) error

	// Load reads a wallet and decrypts its key material. The caller
	// must zero the material after use.
	Load(agentID, walletID string) (*Wallet, *keys.Material, error)

	// LoadMetadata reads a wallet record without touching key material.
	LoadMetadata(agentID, walletID string) (*Wallet, error)

	// Delete removes a wallet. Deleting a missing wallet is a no-op.
	Delete(agentID, walletID string) error

	// List returns all wallet records for an agent, sorted by ID.
	List(agentID string) ([]*Wallet, error)

	// Exists reports whether a wallet is stored.
	Exists(agentID, walletID string) (bool, error)
}

// Options selects and locates a storage backend.
type Options struct {
	// Backend is "file" or "memory".
	Backend string

	// Path is the base directory for the file backend.
	Path string

	// Passphrase encrypts key material at rest (file backend).
	Passphrase string
}

// NewStore builds a Store from options.
func NewStore(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile:
		return NewFileStore(opts.Path, opts.Passphrase), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, wardenerr.WithDetails(wardenerr.ErrUnknownStorageBackend, map[string]string{
			"backend": opts.Backend,
		})
	}
}

// walletFile is the on-disk layout: public record plus age-encrypted
// key material.
type walletFile struct {
	Wallet            *Wallet `json:"wallet"`
	EncryptedMaterial []byte  `json:"encrypted_material"`
}

// FileStore implements Store on the filesystem, one JSON file per
// wallet under <base>/<agentID>/<walletID>.wallet.
type FileStore struct {
	basePath   string
	passphrase string
}

// Compile-time interface check
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at basePath.
func NewFileStore(basePath, passphrase string) *FileStore {
	return &FileStore{basePath: basePath, passphrase: passphrase}
}

// Save writes a wallet and its encrypted key material atomically.
func (s *FileStore) Save(w *Wallet, material *keys.Material) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := material.Validate(); err != nil {
		return err
	}

	exists, err := s.Exists(w.AgentID, w.ID)
	if err != nil {
		return fmt.Errorf("checking wallet existence: %w", err)
	}
	if exists {
		return wardenerr.WithDetails(wardenerr.ErrWalletExists, map[string]string{
			"wallet_id": w.ID,
		})
	}

	agentDir := filepath.Join(s.basePath, w.AgentID)
	if err := os.MkdirAll(agentDir, walletDirPermissions); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}

	plaintext, err := json.Marshal(material)
	if err != nil {
		return fmt.Errorf("marshaling key material: %w", err)
	}
	defer keys.ZeroBytes(plaintext)

	encrypted, err := wardencrypto.Encrypt(plaintext, s.passphrase)
	if err != nil {
		return fmt.Errorf("encrypting key material: %w", err)
	}

	data, err := json.MarshalIndent(walletFile{Wallet: w, EncryptedMaterial: encrypted}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling wallet: %w", err)
	}

	path := s.walletPath(w.AgentID, w.ID)
	if err := fileutil.WriteAtomic(path, data, walletFilePermissions); err != nil {
		return fmt.Errorf("writing wallet file: %w", err)
	}

	return nil
}

// Load reads a wallet and decrypts its key material.
func (s *FileStore) Load(agentID, walletID string) (*Wallet, *keys.Material, error) {
	wf, err := s.readFile(agentID, walletID)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := wardencrypto.Decrypt(wf.EncryptedMaterial, s.passphrase)
	if err != nil {
		return nil, nil, wardenerr.WithDetails(wardenerr.ErrDecryptionFailed, map[string]string{
			"wallet_id": walletID,
		})
	}
	defer keys.ZeroBytes(plaintext)

	var material keys.Material
	if err := json.Unmarshal(plaintext, &material); err != nil {
		return nil, nil, fmt.Errorf("parsing key material: %w", err)
	}

	return wf.Wallet, &material, nil
}

// LoadMetadata reads a wallet record without decrypting key material.
func (s *FileStore) LoadMetadata(agentID, walletID string) (*Wallet, error) {
	wf, err := s.readFile(agentID, walletID)
	if err != nil {
		return nil, err
	}
	return wf.Wallet, nil
}

// Delete removes a wallet file. Missing wallets are a no-op.
func (s *FileStore) Delete(agentID, walletID string) error {
	if err := validateKeys(agentID, walletID); err != nil {
		return err
	}

	err := os.Remove(s.walletPath(agentID, walletID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing wallet file: %w", err)
	}
	return nil
}

// List returns all wallet records for an agent, sorted by ID.
func (s *FileStore) List(agentID string) ([]*Wallet, error) {
	if err := ValidateAgentID(agentID); err != nil {
		return nil, err
	}

	agentDir := filepath.Join(s.basePath, agentID)
	entries, err := os.ReadDir(agentDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading agent directory: %w", err)
	}

	wallets := make([]*Wallet, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), walletFileExtension) {
			continue
		}

		walletID := strings.TrimSuffix(entry.Name(), walletFileExtension)
		wf, err := s.readFile(agentID, walletID)
		if err != nil {
			// Skip files that are not valid wallet records
			continue
		}
		wallets = append(wallets, wf.Wallet)
	}

	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

// Exists reports whether a wallet file is present.
func (s *FileStore) Exists(agentID, walletID string) (bool, error) {
	if err := validateKeys(agentID, walletID); err != nil {
		return false, err
	}

	_, err := os.Stat(s.walletPath(agentID, walletID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// readFile loads and parses a wallet file.
func (s *FileStore) readFile(agentID, walletID string) (*walletFile, error) {
	if err := validateKeys(agentID, walletID); err != nil {
		return nil, err
	}

	path := s.walletPath(agentID, walletID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, wardenerr.WithDetails(wardenerr.ErrWalletNotFound, map[string]string{
			"agent_id":  agentID,
			"wallet_id": walletID,
		})
	}

	// SECURITY: agentID and walletID are validated against strict
	// character classes above, so the joined path cannot traverse out
	// of the base directory.
	//nolint:gosec // G304: path components validated by validateKeys
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wallet file: %w", err)
	}

	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing wallet file: %w", err)
	}
	if wf.Wallet == nil {
		return nil, fmt.Errorf("parsing wallet file: missing record")
	}

	return &wf, nil
}

// walletPath returns the file path for a wallet. IDs must already be
// validated.
func (s *FileStore) walletPath(agentID, walletID string) string {
	return filepath.Join(s.basePath, agentID, walletID+walletFileExtension)
}

func validateKeys(agentID, walletID string) error {
	if err := ValidateAgentID(agentID); err != nil {
		return err
	}
	return ValidateWalletID(walletID)
}

// MemoryStore implements Store with an in-process map. Used by tests
// and as the "memory" backend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	wallet   *Wallet
	material *keys.Material
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func memoryKey(agentID, walletID string) string {
	return agentID + "/" + walletID
}

// Save stores deep copies of the wallet and material.
func (s *MemoryStore) Save(w *Wallet, material *keys.Material) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := material.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(w.AgentID, w.ID)
	if _, exists := s.entries[key]; exists {
		return wardenerr.WithDetails(wardenerr.ErrWalletExists, map[string]string{
			"wallet_id": w.ID,
		})
	}

	s.entries[key] = memoryEntry{wallet: w.Clone(), material: cloneMaterial(material)}
	return nil
}

// Load returns copies of the stored wallet and material.
func (s *MemoryStore) Load(agentID, walletID string) (*Wallet, *keys.Material, error) {
	if err := validateKeys(agentID, walletID); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[memoryKey(agentID, walletID)]
	if !ok {
		return nil, nil, wardenerr.WithDetails(wardenerr.ErrWalletNotFound, map[string]string{
			"agent_id":  agentID,
			"wallet_id": walletID,
		})
	}

	return entry.wallet.Clone(), cloneMaterial(entry.material), nil
}

// LoadMetadata returns a copy of the stored wallet record.
func (s *MemoryStore) LoadMetadata(agentID, walletID string) (*Wallet, error) {
	w, material, err := s.Load(agentID, walletID)
	if err != nil {
		return nil, err
	}
	material.Zero()
	return w, nil
}

// Delete removes a wallet. Missing wallets are a no-op.
func (s *MemoryStore) Delete(agentID, walletID string) error {
	if err := validateKeys(agentID, walletID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(agentID, walletID)
	if entry, ok := s.entries[key]; ok {
		entry.material.Zero()
		delete(s.entries, key)
	}
	return nil
}

// List returns all wallet records for an agent, sorted by ID.
func (s *MemoryStore) List(agentID string) ([]*Wallet, error) {
	if err := ValidateAgentID(agentID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var wallets []*Wallet
	for _, entry := range s.entries {
		if entry.wallet.AgentID == agentID {
			wallets = append(wallets, entry.wallet.Clone())
		}
	}

	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

// Exists reports whether a wallet is stored.
func (s *MemoryStore) Exists(agentID, walletID string) (bool, error) {
	if err := validateKeys(agentID, walletID); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[memoryKey(agentID, walletID)]
	return ok, nil
}

func cloneMaterial(m *keys.Material) *keys.Material {
	cp := &keys.Material{}
	if len(m.PrivateKey) > 0 {
		cp.PrivateKey = append([]byte(nil), m.PrivateKey...)
	}
	if m.Seed != nil {
		seed := *m.Seed
		cp.Seed = &seed
	}
	return cp
}
