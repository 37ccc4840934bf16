package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	st, err := OpenStore(t.Context(), &config.Config{StoreDriver: config.StoreDriverMemory}, true)
	require.NoError(t, err)
	assert.NotNil(t, st.Documents)
}

func TestSigner_LoadsConfiguredKey(t *testing.T) {
	s, err := signing.GenerateRSASigner(1024)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, s.PrivateKeyPEM(), 0o600))

	loaded, err := Signer(&config.Config{SigningKeyPath: path})
	require.NoError(t, err)
	want, err := s.PublicKeyPEM()
	require.NoError(t, err)
	got, err := loaded.PublicKeyPEM()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Signer(&config.Config{SigningKeyPath: filepath.Join(t.TempDir(), "missing.pem")})
	assert.Error(t, err)
}
