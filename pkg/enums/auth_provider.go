package enums

import "fmt"

// AuthProvider identifies how an owner authenticated. Owners start as guests
// (device-token identity) and may later log in through a social provider.
type AuthProvider string

const (
	AuthProviderGuest  AuthProvider = "guest"
	AuthProviderKakao  AuthProvider = "kakao"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderNaver  AuthProvider = "naver"
	AuthProviderApple  AuthProvider = "apple"
)

var validAuthProviders = []AuthProvider{
	AuthProviderGuest,
	AuthProviderKakao,
	AuthProviderGoogle,
	AuthProviderNaver,
	AuthProviderApple,
}

// IsValid reports whether the value matches the canonical auth provider enum.
func (a AuthProvider) IsValid() bool {
	for _, candidate := range validAuthProviders {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsSocial reports whether the provider is a social identity (anything but guest).
func (a AuthProvider) IsSocial() bool {
	return a.IsValid() && a != AuthProviderGuest
}

// ParseAuthProvider converts the raw string to AuthProvider.
func ParseAuthProvider(value string) (AuthProvider, error) {
	for _, candidate := range validAuthProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth provider %q", value)
}
