package crypto

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// SaveToKeystore encrypts the launchpad owner key into a scrypt keystore file
// at path, replacing any previous file. Missing parent directories are created
// with 0700 permissions and the final file is tightened to 0600.
func SaveToKeystore(path string, key *PrivateKey, passphrase string) error {
	if key == nil {
		return errors.New("crypto: nil private key")
	}
	if path == "" {
		return errors.New("crypto: empty keystore path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	src, cleanup, err := encryptToScratch(dir, key, passphrase)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(src, path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// encryptToScratch writes the encrypted key into a scratch directory next to
// the destination so the rename into place stays on one filesystem.
func encryptToScratch(dir string, key *PrivateKey, passphrase string) (string, func(), error) {
	scratch, err := os.MkdirTemp(dir, "lp-keystore-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(scratch) }

	ks := keystore.NewKeyStore(scratch, keystore.StandardScryptN, keystore.StandardScryptP)
	if _, err := ks.ImportECDSA(key.PrivateKey, passphrase); err != nil {
		cleanup()
		return "", nil, err
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if len(entries) == 0 {
		cleanup()
		return "", nil, errors.New("crypto: keystore produced no file")
	}
	return filepath.Join(scratch, entries[0].Name()), cleanup, nil
}

// LoadFromKeystore decrypts the owner keystore file with the supplied
// passphrase and returns the secp256k1 key it protects.
func LoadFromKeystore(path, passphrase string) (*PrivateKey, error) {
	if path == "" {
		return nil, errors.New("crypto: empty keystore path")
	}

	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decrypted, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, err
	}

	return &PrivateKey{PrivateKey: decrypted.PrivateKey}, nil
}
