package session

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/i18n"
)

// Service owns the tab-wide session state: the current identity, its token
// pair and the language preference. It is the sole writer of the session keys
// in the backing Repository. All mutation goes through Login, Logout, Refresh
// and SetLocale; there is no ambient global state.
type Service struct {
	mu         sync.Mutex
	repo       Repository
	translator *i18n.Translator

	usr          *User
	accessToken  string
	refreshToken string
	language     string
}

func NewService(repo Repository, translator *i18n.Translator) *Service {
	return &Service{
		repo:       repo,
		translator: translator,
		language:   core.Conf.GetString("defaultLanguage"),
	}
}

// Hydrate restores state from the persisted store at startup. A session is
// restored only when the user record and both tokens are all present; partial
// or malformed state leaves the service anonymous. Stored tokens are not
// re-validated: validity is assumed indefinite.
func (svc *Service) Hydrate() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	// language persists independently of the session lifecycle
	if lang, err := svc.repo.Get(keyLanguage); err == nil && svc.translator.IsSupported(lang) {
		svc.language = lang
	}

	userJSON, err := svc.repo.Get(keyUser)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil
		}
		return errors.Wrap(err, "reading stored user")
	}
	access, err := svc.repo.Get(keyAccessToken)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil
		}
		return errors.Wrap(err, "reading stored access token")
	}
	refresh, err := svc.repo.Get(keyRefreshToken)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil
		}
		return errors.Wrap(err, "reading stored refresh token")
	}

	var usr User
	if err := json.Unmarshal([]byte(userJSON), &usr); err != nil {
		// malformed stored state is treated as absent, never as an error
		return nil
	}

	svc.usr = &usr
	svc.accessToken = access
	svc.refreshToken = refresh
	return nil
}

// Login assumes the given mock identity and issues a fresh token pair. The
// role defaults to farmer when unspecified. No credential verification occurs.
func (svc *Service) Login(creds LoginCredentials) (TokenPair, error) {
	if err := creds.Validate(); err != nil {
		return TokenPair{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	role := creds.Role
	if role == "" {
		role = RoleFarmer
	}
	perms := make([]string, len(DefaultPermissions))
	copy(perms, DefaultPermissions)
	usr := User{Email: creds.Email, Role: role, Permissions: perms}

	access, err := generateToken(newClaims(usr, tokenTypeAccess, core.Conf.GetDuration("jwtExpirationDelta")))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := generateToken(newClaims(usr, tokenTypeRefresh, core.Conf.GetDuration("jwtRefreshExpirationDelta")))
	if err != nil {
		return TokenPair{}, err
	}

	if err := svc.persistSession(usr, access, refresh); err != nil {
		return TokenPair{}, err
	}

	svc.usr = &usr
	svc.accessToken = access
	svc.refreshToken = refresh
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// persistSession writes all four session keys; on any failure the keys are
// deleted again so the store never holds a partial session.
func (svc *Service) persistSession(usr User, access, refresh string) error {
	data, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "serializing user")
	}

	writes := []struct{ key, value string }{
		{keyUser, string(data)},
		{keyAccessToken, access},
		{keyRefreshToken, refresh},
		{keyUserRole, usr.Role},
	}
	for _, w := range writes {
		if err := svc.repo.Set(w.key, w.value); err != nil {
			_ = svc.repo.Delete(sessionKeys()...)
			return errors.Wrapf(err, "persisting %s", w.key)
		}
	}
	return nil
}

// Refresh rotates the access token, deriving the new value from the held
// refresh token and a fresh timestamp. The refresh token itself is never
// rotated. Returns an empty token with no error when anonymous.
func (svc *Service) Refresh() (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.refreshToken == "" {
		return "", nil
	}

	var usr User
	if svc.usr != nil {
		usr = *svc.usr
	}
	var origIat []int64
	if claims, err := parseClaims(svc.refreshToken); err == nil {
		usr = User{Email: claims.Subject, Role: claims.Role, Permissions: claims.Permissions}
		origIat = []int64{claims.OrigIssuedAt}
	}

	access, err := generateToken(newClaims(usr, tokenTypeAccess, core.Conf.GetDuration("jwtExpirationDelta"), origIat...))
	if err != nil {
		return "", err
	}
	if err := svc.repo.Set(keyAccessToken, access); err != nil {
		return "", errors.Wrap(err, "persisting access_token")
	}

	svc.accessToken = access
	return access, nil
}

// Logout clears the session in memory and in the store. Calling it while
// anonymous is a no-op.
func (svc *Service) Logout() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.repo.Delete(sessionKeys()...); err != nil {
		return errors.Wrap(err, "deleting session keys")
	}
	svc.usr = nil
	svc.accessToken = ""
	svc.refreshToken = ""
	return nil
}

// SetLocale switches the display language and persists the preference.
func (svc *Service) SetLocale(code string) error {
	code = core.CleanString(code, true /* lower */)
	if !svc.translator.IsSupported(code) {
		return core.NewValidationError(
			errors.Errorf("unsupported language %q", code),
			core.FieldError{Field: "language", Error: "unsupported language"},
		)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.repo.Set(keyLanguage, code); err != nil {
		return errors.Wrap(err, "persisting language")
	}
	svc.language = code
	return nil
}

// T resolves a display string for the current language; it never fails.
func (svc *Service) T(key string) string {
	return svc.translator.T(svc.Language(), key)
}

// Current returns the authenticated user, if any.
func (svc *Service) Current() (User, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.usr == nil {
		return User{}, false
	}
	return *svc.usr, true
}

func (svc *Service) AccessToken() string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.accessToken
}

func (svc *Service) RefreshToken() string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.refreshToken
}

func (svc *Service) Language() string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.language
}
