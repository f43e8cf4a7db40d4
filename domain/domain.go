package domain

// Domain identifies one of the downstream service families the director
// routes users into. Each family has its own role and merge-validation rules.
type Domain string

const (
	// Cat is the Contract Award Service family.
	Cat Domain = "cat"
	// Jaegger is the CCS eSourcing family, fronted by the Tenders API.
	Jaegger Domain = "jaegger"
	// Unknown is returned for hosts the director is not configured to serve.
	Unknown Domain = ""
)

// Display names shown to users on error and merge screens.
const (
	DisplayJaeggerServiceName = "CCS eSourcing"
	DisplayCatServiceName     = "Contract Award Service"
)

// DisplayName returns the user-facing service name for the domain.
func (d Domain) DisplayName() string {
	switch d {
	case Cat:
		return DisplayCatServiceName
	case Jaegger:
		return DisplayJaeggerServiceName
	default:
		return ""
	}
}

// Resolver maps request hostnames onto a service family. The two exit hosts
// come from configuration; anything else resolves to Unknown.
type Resolver struct {
	CatHost     string
	JaeggerHost string
}

// Resolve returns the family for a request host.
func (r Resolver) Resolve(host string) Domain {
	switch host {
	case r.CatHost:
		return Cat
	case r.JaeggerHost:
		return Jaegger
	default:
		return Unknown
	}
}
