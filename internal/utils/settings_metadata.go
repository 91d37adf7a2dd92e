package utils

import (
	"reflect"
	"strconv"
	"strings"

	"lingoflow/internal/models"
	"lingoflow/internal/types"
)

// sensitiveSettingKeys are masked in API responses.
var sensitiveSettingKeys = map[string]bool{
	"provider_api_key": true,
}

// GenerateSettingsMetadata reflects over the settings struct tags and builds
// the display metadata for the settings API.
func GenerateSettingsMetadata(settings *types.SystemSettings) []models.SystemSettingInfo {
	v := reflect.ValueOf(settings).Elem()
	t := v.Type()

	infos := make([]models.SystemSettingInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("json")
		if key == "" || key == "-" {
			continue
		}

		info := models.SystemSettingInfo{
			Key:         key,
			Name:        field.Tag.Get("name"),
			Description: field.Tag.Get("desc"),
			Category:    field.Tag.Get("category"),
		}

		switch field.Type.Kind() {
		case reflect.Int:
			info.Type = "int"
		case reflect.Bool:
			info.Type = "bool"
		default:
			info.Type = "string"
		}

		value := v.Field(i).Interface()
		if sensitiveSettingKeys[key] {
			if s, ok := value.(string); ok && s != "" {
				value = MaskSecret(s)
			}
		}
		info.Value = value
		info.DefaultValue = defaultTagValue(field)

		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			switch {
			case rule == "required":
				info.Required = true
			case strings.HasPrefix(rule, "min="):
				if n, err := strconv.Atoi(strings.TrimPrefix(rule, "min=")); err == nil {
					min := n
					info.MinValue = &min
				}
			case strings.HasPrefix(rule, "max="):
				if n, err := strconv.Atoi(strings.TrimPrefix(rule, "max=")); err == nil {
					max := n
					info.MaxValue = &max
				}
			}
		}

		infos = append(infos, info)
	}
	return infos
}

func defaultTagValue(field reflect.StructField) any {
	def := field.Tag.Get("default")
	switch field.Type.Kind() {
	case reflect.Int:
		n, _ := strconv.Atoi(def)
		return n
	case reflect.Bool:
		return def == "true"
	default:
		return def
	}
}

// MaskSecret hides all but the edges of a secret value.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
