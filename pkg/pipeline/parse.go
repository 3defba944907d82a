package pipeline

import (
	"bytes"
	"io"

	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/roster"
)

// Parse reads a roster and returns its entries along with the SHA-256 of
// the raw bytes. Malformed rows come back as entries carrying MALFORMED_ROW;
// only unreadable input is an error.
func Parse(r io.Reader) ([]roster.Entry, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read roster")
	}
	entries, err := roster.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return entries, cache.Hash(data), nil
}
