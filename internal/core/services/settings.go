package services

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySourceRoot     = "source.root"
	keySourceExclude  = "source.exclude"
	keyIncludePrivate = "source.include_private"
	keyOutputRoot     = "output.root"
	keyFrontMatter    = "render.front_matter"
	keyShowReceiver   = "render.show_receiver"
	keyIndexTitle     = "render.index_title"
	keyJobs           = "run.jobs"
	keyScanSecrets    = "run.scan_secrets"
)

// SettingsService resolves settings from docgen.toml and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the defaults overlaid with the values present in the
// configuration. A value of the wrong type is an error wrapping
// domain.ErrInvalidInput; range checks are left to Settings.Validate so
// flag overrides can still apply.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	r := &reader{store: s.configStore}

	r.str(keySourceRoot, &settings.Source.Root)
	r.list(keySourceExclude, &settings.Source.Exclude)
	r.boolean(keyIncludePrivate, &settings.Source.IncludePrivate)
	r.str(keyOutputRoot, &settings.Output.Root)
	r.boolean(keyFrontMatter, &settings.Render.FrontMatter)
	r.boolean(keyShowReceiver, &settings.Render.ShowReceiver)
	r.str(keyIndexTitle, &settings.Render.IndexTitle)
	r.integer(keyJobs, &settings.Run.Jobs)
	r.boolean(keyScanSecrets, &settings.Run.ScanSecrets)

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, s.configStore.Path(), err)
	}
	return &settings, nil
}

// Save persists settings to the configuration file.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	exclude := settings.Source.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	values := []struct {
		key   string
		value any
	}{
		{keySourceRoot, settings.Source.Root},
		{keySourceExclude, exclude},
		{keyIncludePrivate, settings.Source.IncludePrivate},
		{keyOutputRoot, settings.Output.Root},
		{keyFrontMatter, settings.Render.FrontMatter},
		{keyShowReceiver, settings.Render.ShowReceiver},
		{keyIndexTitle, settings.Render.IndexTitle},
		{keyJobs, settings.Run.Jobs},
		{keyScanSecrets, settings.Run.ScanSecrets},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("write %s: %w", s.configStore.Path(), err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Exists reports whether the configuration file exists.
func (s *SettingsService) Exists() bool {
	return s.configStore.Exists()
}

// reader copies present config values into settings fields and collects
// type errors.
type reader struct {
	store driven.ConfigStore
	errs  []error
}

func (r *reader) get(key string) (any, bool) {
	return r.store.Get(key)
}

func (r *reader) mismatch(key, want string, got any) {
	r.errs = append(r.errs, fmt.Errorf("%s: expected %s, got %T", key, want, got))
}

func (r *reader) str(key string, dst *string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	str, ok := v.(string)
	if !ok {
		r.mismatch(key, "a string", v)
		return
	}
	*dst = str
}

func (r *reader) boolean(key string, dst *bool) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		r.mismatch(key, "a boolean", v)
		return
	}
	*dst = b
}

func (r *reader) integer(key string, dst *int) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int64:
		*dst = int(n)
	case int:
		*dst = n
	default:
		r.mismatch(key, "an integer", v)
	}
}

func (r *reader) list(key string, dst *[]string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	switch list := v.(type) {
	case []string:
		*dst = list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				r.mismatch(key, "a list of strings", v)
				return
			}
			out = append(out, str)
		}
		*dst = out
	default:
		r.mismatch(key, "a list of strings", v)
	}
}
