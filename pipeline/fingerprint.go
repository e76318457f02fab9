package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

func fingerprintFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return h.Sum64(), nil
}
