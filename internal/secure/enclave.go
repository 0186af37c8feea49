package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrEmpty is returned when sealing an empty byte slice.
var ErrEmpty = errors.New("secure: no data to protect")

// ErrDestroyed is returned by Open after Destroy.
var ErrDestroyed = errors.New("secure: buffer destroyed")

// SecureBuffer holds sensitive bytes in an encrypted memguard enclave.
type SecureBuffer struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
	size    int
}

// NewSecureBuffer seals data into an enclave. data is wiped by memguard once
// copied, so callers must not reuse it.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	size := len(data)
	return &SecureBuffer{
		enclave: memguard.NewEnclave(data),
		size:    size,
	}, nil
}

// Size returns the number of protected bytes.
func (s *SecureBuffer) Size() int {
	return s.size
}

// Open decrypts the enclave into a locked buffer. The caller must Destroy
// the returned buffer.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.enclave == nil {
		return nil, ErrDestroyed
	}
	return s.enclave.Open()
}

// Destroy drops the enclave. It is safe to call more than once.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
}

// Purge wipes every memguard allocation in the process. Call it on exit.
func Purge() {
	memguard.Purge()
}
