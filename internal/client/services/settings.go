package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
)

// Settings are the profile preferences kept under common.KeySettings.
type Settings struct {
	RandomCount int  `json:"random_count"`
	PreferHD    bool `json:"prefer_hd"`
}

func DefaultSettings() Settings {
	return Settings{RandomCount: 5}
}

type SettingsService struct {
	store    kv.Store
	defaults Settings
}

// NewSettingsService uses defaults for anything not stored yet. An invalid
// default count is replaced by the one from DefaultSettings.
func NewSettingsService(store kv.Store, defaults Settings) *SettingsService {
	if defaults.RandomCount < 1 || defaults.RandomCount > MaxRandomCount {
		defaults.RandomCount = DefaultSettings().RandomCount
	}
	return &SettingsService{store: store, defaults: defaults}
}

// Load returns the stored settings, or the defaults when none are stored
// or the stored value is malformed.
func (s *SettingsService) Load(ctx context.Context) (Settings, error) {
	def := s.defaults
	raw, err := s.store.Get(ctx, common.KeySettings)
	if err != nil {
		return def, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	if len(raw) == 0 {
		return def, nil
	}
	st := def
	if err := json.Unmarshal(raw, &st); err != nil {
		return def, nil
	}
	if st.RandomCount < 1 || st.RandomCount > MaxRandomCount {
		st.RandomCount = def.RandomCount
	}
	return st, nil
}

func (s *SettingsService) Save(ctx context.Context, st Settings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, common.KeySettings, raw); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

// Set changes a single setting by name: "count" or "hd".
func (s *SettingsService) Set(ctx context.Context, name, value string) (Settings, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return st, err
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "count":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > MaxRandomCount {
			return st, fmt.Errorf("%w: count must be between 1 and %d", common.ErrorValidation, MaxRandomCount)
		}
		st.RandomCount = n
	case "hd":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return st, fmt.Errorf("%w: hd must be true or false", common.ErrorValidation)
		}
		st.PreferHD = b
	default:
		return st, fmt.Errorf("%w: unknown setting %q", common.ErrorValidation, name)
	}

	return st, s.Save(ctx, st)
}
