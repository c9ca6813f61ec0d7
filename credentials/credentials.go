// Package credentials owns the persisted access/refresh token pair.
//
// The pair is written by the session manager on login and purged by either
// the session manager (logout) or the gateway (401 interception). Both
// tokens are present together or absent together; a store that finds only
// one of them must treat the state as logged-out and clean it up.
package credentials

// Pair holds the opaque bearer tokens issued by the backend at login.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Empty reports whether both tokens are absent.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
