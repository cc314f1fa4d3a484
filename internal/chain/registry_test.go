package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySomnia(t *testing.T) {
	registry := chain.NewRegistry()

	c, err := registry.GetByName("Somnia")
	require.NoError(t, err)
	assert.Equal(t, int64(5031), c.ChainID)
	assert.Equal(t, int64(50312), c.ID("testnet"))
	assert.Equal(t, int64(5031), c.ID("mainnet"))
	assert.Equal(t, "SOMI", c.NativeCurrency)
	assert.Equal(t, int32(18), c.NativeDecimals)
	assert.Equal(t, []string{"https://api.infra.mainnet.somnia.network/"}, c.RPCs("mainnet"))
	assert.Equal(t, "Somnia Shannon", c.NetworkLabel("testnet"))
}

func TestRegistryGetByName(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		name    string
		chainID int64
	}{
		{"somnia", 5031},
		{"ethereum", 1},
		{"base", 8453},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.chainID, c.ChainID)
		})
	}
}

func TestRegistryGetUnknownChain(t *testing.T) {
	_, err := chain.NewRegistry().GetByName("solana")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestGetByChainIDMatchesTestnet(t *testing.T) {
	registry := chain.NewRegistry()

	c, err := registry.GetByChainID(50312)
	require.NoError(t, err)
	assert.Equal(t, "somnia", c.Name)

	_, err = registry.GetByChainID(999999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestAllChainsComplete(t *testing.T) {
	for _, c := range chain.NewRegistry().All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NotEmpty(t, c.MainnetRPCs)
			assert.NotEmpty(t, c.TestnetRPCs)
			assert.NotEmpty(t, c.MainnetExplorer)
			assert.NotEmpty(t, c.TestnetExplorer)
			assert.NotEmpty(t, c.NativeCurrency)
			assert.NotZero(t, c.TestnetChainID)
		})
	}
}

func TestTxURL(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("somnia")
	require.NoError(t, err)
	assert.Equal(t, "https://explorer.somnia.network/tx/0xabc", c.TxURL("mainnet", "0xabc"))
	assert.Equal(t, "https://shannon-explorer.somnia.network/tx/0xabc", c.TxURL("testnet", "0xabc"))

	empty := &chain.Chain{}
	assert.Equal(t, "", empty.TxURL("mainnet", "0xabc"))
}
