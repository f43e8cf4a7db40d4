package config

type Sso struct{}

var _ SsoConfig = Sso{}

func (Sso) GetSsoIssuer() string {
	return GetEnv("SSO_ISSUER", "")
}

func (Sso) GetSsoClientID() string {
	return GetEnv("SSO_CLIENT_ID", "")
}

func (Sso) GetSsoClientSecret() string {
	return GetEnv("SSO_CLIENT_SECRET", "")
}

func (Sso) GetSsoRedirectURL() string {
	return GetEnv("SSO_REDIRECT_URL", "")
}

type Domains struct{}

var _ DomainsConfig = Domains{}

func (Domains) GetCatDomain() string {
	return GetEnv("EXIT_DOMAIN_CAT", "")
}

func (Domains) GetJaeggerDomain() string {
	return GetEnv("EXIT_DOMAIN_JAEGGER", "")
}

type Tenders struct{}

var _ TendersConfig = Tenders{}

func (Tenders) GetTendersAPIDomain() string {
	return GetEnv("TENDERS_API_DOMAIN", "")
}

func (Tenders) GetTendersUserPath() string {
	return GetEnv("TENDERS_USER_PATH", "/users/")
}

type Adaptor struct{}

var _ AdaptorConfig = Adaptor{}

func (Adaptor) GetAdaptorAPIDomain() string {
	return GetEnv("ADAPTOR_API_DOMAIN", "")
}

func (Adaptor) GetAdaptorAPIKey() string {
	return GetEnv("ADAPTOR_API_KEY", "")
}
