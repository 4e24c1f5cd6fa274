package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/client/storage"
)

// Pull fetches every collection from the backend and overwrites the local
// copy of each one the server returned as a non-empty list. Empty or
// non-list values never replace local data. On any failure the local store
// is left untouched and the error is returned after logging.
func (c *Client) Pull(ctx context.Context) error {
	var data map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, apiSyncData, nil, &data, false); err != nil {
		c.log.Warn("pull failed", zap.Error(err))
		return err
	}

	updated := 0
	for name, raw := range data {
		if !storage.IsNonEmptyList(raw) {
			c.log.Debug("pull skipped collection", zap.String("collection", name))
			continue
		}
		if err := c.store.SetRaw(name, raw); err != nil {
			c.log.Error("pull could not store collection", zap.String("collection", name), zap.Error(err))
			return err
		}
		updated++
	}
	c.log.Info("pull complete", zap.Int("updated", updated), zap.Int("received", len(data)))
	return nil
}

// Push uploads the allow-listed collections that are non-empty lists.
// Without a stored token it does nothing. Failures are logged and returned;
// local state is already committed by the time Push runs.
func (c *Client) Push(ctx context.Context) error {
	if _, ok := c.token(); !ok {
		c.log.Debug("push skipped: no token")
		return nil
	}

	payload := make(map[string]json.RawMessage, len(storage.PushKeys))
	for _, key := range storage.PushKeys {
		raw, ok := c.store.GetRaw(key)
		if !ok || !storage.IsNonEmptyList(raw) {
			continue
		}
		payload[key] = raw
	}

	if err := c.do(ctx, http.MethodPost, apiSyncUpload, payload, nil, true); err != nil {
		c.log.Warn("push failed", zap.Error(err))
		return err
	}
	c.log.Info("push complete", zap.Int("collections", len(payload)))
	return nil
}
