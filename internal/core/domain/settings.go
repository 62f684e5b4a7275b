package domain

const (
	SettingLocationAddress = "location_address"
	SettingLiveChatCode    = "live_chat_code"
	SettingPhoneNumber     = "phone_number"
)

// SettingKeys lists every key the settings store accepts, in display order.
var SettingKeys = []string{SettingLocationAddress, SettingLiveChatCode, SettingPhoneNumber}

// Settings is the key/value site configuration managed from the admin panel.
type Settings map[string]string

// IsSettingKey reports whether key is one of SettingKeys.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Normalize returns a copy holding exactly the known keys, empty when unset.
func (s Settings) Normalize() Settings {
	out := make(Settings, len(SettingKeys))
	for _, k := range SettingKeys {
		out[k] = s[k]
	}
	return out
}
