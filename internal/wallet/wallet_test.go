package wallet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

func validWallet(t *testing.T) *Wallet {
	t.Helper()
	id, err := NewWalletID()
	require.NoError(t, err)

	now := time.Now().UTC()
	return &Wallet{
		ID:             id,
		AgentID:        "agent-1",
		Chain:          chain.ETH,
		Address:        "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		Method:         keys.MethodMnemonic,
		DerivationPath: "m/44'/60'/0'/0/0",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestNewWalletID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		id, err := NewWalletID()
		require.NoError(t, err)
		assert.Regexp(t, `^wlt_[0-9a-f]{32}$`, id)
		assert.False(t, seen[id], "wallet IDs must not repeat")
		seen[id] = true
	}
}

func TestValidateAgentID(t *testing.T) {
	t.Parallel()

	valid := []string{"agent-1", "a", "Agent_99", "x-y_z"}
	for _, id := range valid {
		assert.NoError(t, ValidateAgentID(id), id)
	}

	invalid := []string{"", "agent/1", "../etc", "agent 1", "a.b",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, id := range invalid {
		err := ValidateAgentID(id)
		require.Error(t, err, id)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidInput))
	}
}

func TestValidateWalletID(t *testing.T) {
	t.Parallel()

	id, err := NewWalletID()
	require.NoError(t, err)
	assert.NoError(t, ValidateWalletID(id))

	for _, bad := range []string{"", "wlt_", "wlt_xyz", "wallet-1", "wlt_ABCDEF"} {
		err := ValidateWalletID(bad)
		require.Error(t, err, bad)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidInput))
	}
}

func TestWallet_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validWallet(t).Validate())
	})

	t.Run("bad chain", func(t *testing.T) {
		t.Parallel()
		w := validWallet(t)
		w.Chain = chain.ID("dogecoin")
		err := w.Validate()
		require.Error(t, err)
		assert.True(t, wardenerr.Is(err, wardenerr.ErrUnsupportedChain))
	})

	t.Run("bad method", func(t *testing.T) {
		t.Parallel()
		w := validWallet(t)
		w.Method = keys.Method("osmosis")
		assert.True(t, wardenerr.Is(w.Validate(), wardenerr.ErrInvalidInput))
	})

	t.Run("empty address", func(t *testing.T) {
		t.Parallel()
		w := validWallet(t)
		w.Address = ""
		assert.True(t, wardenerr.Is(w.Validate(), wardenerr.ErrInvalidInput))
	})
}

func TestWallet_Clone(t *testing.T) {
	t.Parallel()

	w := validWallet(t)
	w.ChainMetadata = map[string]string{"token_program": "spl"}

	cp := w.Clone()
	require.Equal(t, w, cp)

	cp.ChainMetadata["token_program"] = "changed"
	cp.Address = "other"
	assert.Equal(t, "spl", w.ChainMetadata["token_program"])
	assert.NotEqual(t, w.Address, cp.Address)
}
