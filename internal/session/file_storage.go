package session

import (
	"context"
	"crypto/rand"
	"edu_portal/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const sealedVersion = 1

// sealedFile 加密后的磁盘格式
type sealedFile struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

// FileStorage 将凭证写入单个 JSON 文件。设置 passphrase 时使用 secretbox 加密
type FileStorage struct {
	path       string
	passphrase []byte

	mu     sync.Mutex
	data   map[string]string
	loaded bool
}

func NewFileStorage(path, passphrase string) *FileStorage {
	fs := &FileStorage{path: path}
	if passphrase != "" {
		fs.passphrase = []byte(passphrase)
	}
	return fs
}

func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return "", false, err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	f.data[key] = value
	return f.flush()
}

func (f *FileStorage) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

func (f *FileStorage) ensureLoaded() error {
	if f.loaded {
		return nil
	}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.data = map[string]string{}
		f.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credential file: %w", err)
	}

	plain, err := f.open(raw)
	if err != nil {
		return err
	}
	data := map[string]string{}
	if len(plain) > 0 {
		if err := json.Unmarshal(plain, &data); err != nil {
			return fmt.Errorf("decode credential file: %w", err)
		}
	}
	f.data = data
	f.loaded = true
	return nil
}

func (f *FileStorage) open(raw []byte) ([]byte, error) {
	var sealed sealedFile
	if err := json.Unmarshal(raw, &sealed); err != nil || sealed.Version == 0 || sealed.Box == nil {
		// 明文文件
		return raw, nil
	}
	if f.passphrase == nil {
		return nil, util.ErrSealedStorage
	}
	if len(sealed.Nonce) != 24 {
		return nil, fmt.Errorf("credential file has a malformed nonce")
	}
	key, err := deriveKey(f.passphrase, sealed.Salt)
	if err != nil {
		return nil, err
	}
	var nonce [24]byte
	copy(nonce[:], sealed.Nonce)
	plain, ok := secretbox.Open(nil, sealed.Box, &nonce, key)
	if !ok {
		return nil, fmt.Errorf("credential file could not be decrypted with the given passphrase")
	}
	return plain, nil
}

func (f *FileStorage) flush() error {
	plain, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	out := plain
	if f.passphrase != nil {
		out, err = f.seal(plain)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStorage) seal(plain []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	key, err := deriveKey(f.passphrase, salt)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealedFile{
		Version: sealedVersion,
		Salt:    salt,
		Nonce:   nonce[:],
		Box:     secretbox.Seal(nil, plain, &nonce, key),
	})
}

func deriveKey(passphrase, salt []byte) (*[32]byte, error) {
	b, err := scrypt.Key(passphrase, salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	var key [32]byte
	copy(key[:], b)
	return &key, nil
}
