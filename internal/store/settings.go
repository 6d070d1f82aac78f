package store

import "encoding/json"

// MergeSettings overlays a persisted settings document on top of the built-in
// defaults. Fields present in raw win; fields absent keep their default, so a
// record persisted before a field existed still reads back complete. Arrays
// (features, galleryImages) are whole-value overrides, never merged per
// element.
func MergeSettings(raw []byte) (SiteSettings, error) {
	settings := DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}
