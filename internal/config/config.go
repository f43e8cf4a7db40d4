package config

// Config is the full configuration surface the director needs, composed from
// the per-concern interfaces below.
type Config interface {
	EnvConfig
	SsoConfig
	DomainsConfig
	TendersConfig
	AdaptorConfig
}

// EnvConfig covers process-level settings.
type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

// SsoConfig covers the upstream SSO identity provider.
type SsoConfig interface {
	GetSsoIssuer() string
	GetSsoClientID() string
	GetSsoClientSecret() string
	GetSsoRedirectURL() string
}

// DomainsConfig covers the exit domains the director routes users into.
type DomainsConfig interface {
	GetCatDomain() string
	GetJaeggerDomain() string
}

// TendersConfig covers the Tenders API.
type TendersConfig interface {
	GetTendersAPIDomain() string
	GetTendersUserPath() string
}

// AdaptorConfig covers the Adaptor identity service.
type AdaptorConfig interface {
	GetAdaptorAPIDomain() string
	GetAdaptorAPIKey() string
}

type mainConfig struct {
	EnvVars
	Sso
	Domains
	Tenders
	Adaptor
}

// New returns the environment-variable backed configuration.
func New() Config {
	return mainConfig{}
}
