package config

type Auth struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"TRUSTED"`

	JWTSecret   string `env:"AUTH_JWT_SECRET"`
	JWTIssuer   string `env:"AUTH_JWT_ISSUER"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE"`
}

// AuthMode selects how the caller identity of a request is established.
type AuthMode uint8

const (
	// AuthModeTrusted takes the uid asserted in the request body as-is.
	AuthModeTrusted AuthMode = iota
	// AuthModeJWT requires a signed bearer token.
	AuthModeJWT
)

var authModeNames = []string{"TRUSTED", "JWT"}

func (m AuthMode) String() string {
	return enumString(m, authModeNames)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *AuthMode) UnmarshalText(text []byte) error {
	v, err := parseEnum[AuthMode]("auth mode", text, authModeNames)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m AuthMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
