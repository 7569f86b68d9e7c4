package otp

import (
	"fmt"
	"os"
	"time"
)

// writeCache mirrors the raw response body verbatim. Overwrite is
// last-writer-wins; the fetch cycle is the only writer by construction.
func (c *Client) writeCache(body []byte) error {
	if c.cachePath == "" {
		return nil
	}
	return os.WriteFile(c.cachePath, body, 0o644)
}

// ReadCache loads and validates the mirrored response from a previous run.
// The returned time is the file's modification time, which is when that
// response was fetched. A missing file is reported via os.IsNotExist and is
// not an error condition for callers.
func (c *Client) ReadCache() ([]VehiclePosition, time.Time, error) {
	info, err := os.Stat(c.cachePath)
	if err != nil {
		return nil, time.Time{}, err
	}

	body, err := os.ReadFile(c.cachePath)
	if err != nil {
		return nil, time.Time{}, err
	}

	records, err := parseResponse(body)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("cache file %s: %w", c.cachePath, err)
	}

	return c.validateRecords(records, info.ModTime()), info.ModTime(), nil
}
