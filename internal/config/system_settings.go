package config

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"lingoflow/internal/models"
	"lingoflow/internal/store"
	"lingoflow/internal/types"
	"lingoflow/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// settingsSyncChannel carries change notifications between nodes.
const settingsSyncChannel = "lingoflow:settings:changed"

// SystemSettingsManager manages the DB-backed runtime settings: similarity
// floor, default machine confidence, dual-control review, and the provider
// connection values. Settings hot-reload across nodes via the store's pub/sub.
type SystemSettingsManager struct {
	mu       sync.RWMutex
	db       *gorm.DB
	store    store.Store
	settings types.SystemSettings
	loaded   bool
	sub      store.Subscription
	stopOnce sync.Once
}

// NewSystemSettingsManager creates an uninitialized settings manager. Until
// Initialize runs it serves compile-time defaults.
func NewSystemSettingsManager() *SystemSettingsManager {
	return &SystemSettingsManager{settings: defaultSystemSettings()}
}

// GetSettings returns the current settings snapshot.
func (sm *SystemSettingsManager) GetSettings() types.SystemSettings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.settings
}

// GetAppUrl returns the configured app URL, composed from the environment
// until settings are loaded.
func (sm *SystemSettingsManager) GetAppUrl() string {
	sm.mu.RLock()
	loaded := sm.loaded
	appUrl := sm.settings.AppUrl
	sm.mu.RUnlock()

	if loaded && appUrl != "" {
		return appUrl
	}
	host := utils.GetEnvOrDefault("HOST", "localhost")
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	port := utils.GetEnvOrDefault("PORT", "3001")
	return fmt.Sprintf("http://%s:%s", host, port)
}

// EnsureSettingsInitialized writes default rows for any setting key missing
// from the system_settings table. Runs on the master node at startup.
func (sm *SystemSettingsManager) EnsureSettingsInitialized(db *gorm.DB) error {
	defaults := settingsToMap(defaultSystemSettings())

	var existing []models.SystemSetting
	if err := db.Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load system settings: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		known[s.SettingKey] = struct{}{}
	}

	meta := settingsMetadata()
	for key, value := range defaults {
		if _, ok := known[key]; ok {
			continue
		}
		row := models.SystemSetting{
			SettingKey:   key,
			SettingValue: value,
			Description:  meta[key].description,
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to initialize setting %s: %w", key, err)
		}
	}
	return nil
}

// Initialize loads settings from the database and subscribes to cross-node
// change notifications.
func (sm *SystemSettingsManager) Initialize(db *gorm.DB, st store.Store) error {
	sm.mu.Lock()
	sm.db = db
	sm.store = st
	sm.mu.Unlock()

	if err := sm.reload(); err != nil {
		return err
	}

	sub, err := st.Subscribe(settingsSyncChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to settings channel: %w", err)
	}
	sm.mu.Lock()
	sm.sub = sub
	sm.mu.Unlock()

	go func() {
		for range sub.Channel() {
			if err := sm.reload(); err != nil {
				logrus.WithError(err).Warn("Failed to reload system settings after change notification")
			} else {
				logrus.Debug("System settings reloaded after change notification")
			}
		}
	}()

	return nil
}

// Stop closes the change subscription.
func (sm *SystemSettingsManager) Stop(context.Context) {
	sm.stopOnce.Do(func() {
		sm.mu.RLock()
		sub := sm.sub
		sm.mu.RUnlock()
		if sub != nil {
			sub.Close()
		}
	})
}

// UpdateSettings validates and persists a partial settings update, then
// notifies all nodes.
func (sm *SystemSettingsManager) UpdateSettings(updates map[string]any) error {
	if err := sm.ValidateSettings(updates); err != nil {
		return err
	}

	sm.mu.RLock()
	db := sm.db
	st := sm.store
	sm.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("settings manager is not initialized")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for key, value := range updates {
			serialized := serializeSettingValue(value)
			if err := tx.Model(&models.SystemSetting{}).
				Where("setting_key = ?", key).
				Update("setting_value", serialized).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	if err := sm.reload(); err != nil {
		return err
	}
	if st != nil {
		if err := st.Publish(settingsSyncChannel, []byte("changed")); err != nil {
			logrus.WithError(err).Warn("Failed to publish settings change notification")
		}
	}
	return nil
}

// ValidateSettings checks a partial update against the settings metadata.
func (sm *SystemSettingsManager) ValidateSettings(updates map[string]any) error {
	meta := settingsMetadata()
	for key, value := range updates {
		m, ok := meta[key]
		if !ok {
			return fmt.Errorf("unknown setting key: %s", key)
		}
		switch m.kind {
		case reflect.Int:
			num, ok := toInt(value)
			if !ok {
				return fmt.Errorf("setting %s must be an integer", key)
			}
			if m.hasMin && num < m.min {
				return fmt.Errorf("setting %s must be >= %d", key, m.min)
			}
			if m.hasMax && num > m.max {
				return fmt.Errorf("setting %s must be <= %d", key, m.max)
			}
		case reflect.Bool:
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("setting %s must be a boolean", key)
			}
		case reflect.String:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("setting %s must be a string", key)
			}
			if m.required && strings.TrimSpace(s) == "" {
				return fmt.Errorf("setting %s cannot be empty", key)
			}
		}
	}
	return nil
}

// reload replaces the cached snapshot from the database.
func (sm *SystemSettingsManager) reload() error {
	sm.mu.RLock()
	db := sm.db
	sm.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("settings manager is not initialized")
	}

	var rows []models.SystemSetting
	if err := db.Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load system settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.SettingKey] = row.SettingValue
	}

	settings := defaultSystemSettings()
	applySettingValues(&settings, values)

	sm.mu.Lock()
	sm.settings = settings
	sm.loaded = true
	sm.mu.Unlock()
	return nil
}

// settingMeta describes one settings field, derived from struct tags.
type settingMeta struct {
	kind        reflect.Kind
	description string
	required    bool
	hasMin      bool
	min         int
	hasMax      bool
	max         int
}

func settingsMetadata() map[string]settingMeta {
	meta := make(map[string]settingMeta)
	t := reflect.TypeOf(types.SystemSettings{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("json")
		if key == "" || key == "-" {
			continue
		}
		m := settingMeta{
			kind:        field.Type.Kind(),
			description: field.Tag.Get("desc"),
		}
		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			switch {
			case rule == "required":
				m.required = true
			case strings.HasPrefix(rule, "min="):
				if v, err := strconv.Atoi(strings.TrimPrefix(rule, "min=")); err == nil {
					m.hasMin, m.min = true, v
				}
			case strings.HasPrefix(rule, "max="):
				if v, err := strconv.Atoi(strings.TrimPrefix(rule, "max=")); err == nil {
					m.hasMax, m.max = true, v
				}
			}
		}
		meta[key] = m
	}
	return meta
}

// defaultSystemSettings builds a SystemSettings from the `default` tags.
func defaultSystemSettings() types.SystemSettings {
	var settings types.SystemSettings
	v := reflect.ValueOf(&settings).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		def := t.Field(i).Tag.Get("default")
		if def == "" {
			continue
		}
		setFieldFromString(v.Field(i), def)
	}
	return settings
}

// settingsToMap serializes every field keyed by its json tag.
func settingsToMap(settings types.SystemSettings) map[string]string {
	result := make(map[string]string)
	v := reflect.ValueOf(settings)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("json")
		if key == "" || key == "-" {
			continue
		}
		result[key] = serializeSettingValue(v.Field(i).Interface())
	}
	return result
}

// applySettingValues overwrites fields present in values, keyed by json tag.
func applySettingValues(settings *types.SystemSettings, values map[string]string) {
	v := reflect.ValueOf(settings).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("json")
		raw, ok := values[key]
		if !ok {
			continue
		}
		setFieldFromString(v.Field(i), raw)
	}
}

func setFieldFromString(field reflect.Value, raw string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		if n, err := strconv.Atoi(raw); err == nil {
			field.SetInt(int64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			field.SetBool(b)
		}
	}
}

func serializeSettingValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.Itoa(int(v))
	default:
		return fmt.Sprint(v)
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
