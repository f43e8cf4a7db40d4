package identity

// User is the identity payload returned by the Adaptor service for an
// authenticated SSO user. Role information arrives on two separate lists:
// core roles (rolePermissionInfo, full assignments with a client marker) and
// additional roles (bare keys granted through user groups). Both must be
// consulted when evaluating what a user is entitled to.
type User struct {
	UserID          string           `json:"userDetailId"`
	Email           string           `json:"userName"`
	GivenName       string           `json:"firstName"`
	FamilyName      string           `json:"lastName"`
	CoreRoles       []RoleAssignment `json:"rolePermissionInfo"`
	AdditionalRoles []string         `json:"additionalRoles"`
	ContactPoints   []ContactPoint   `json:"userContactPoints"`
	Organisations   []Organisation   `json:"organisationAdditionalIdentifiers"`
}

// RoleAssignment is a single core role held by a user, as reported by the
// Adaptor service.
type RoleAssignment struct {
	RoleID            string `json:"roleId"`
	RoleName          string `json:"roleName"`
	RoleKey           string `json:"roleKey"`
	ServiceClientName string `json:"serviceClientName"`
}

// ContactPoint groups the contact records held against a user.
type ContactPoint struct {
	ID       int       `json:"contactPointId"`
	Reason   string    `json:"contactPointReason"`
	Name     string    `json:"contactPointName"`
	Contacts []Contact `json:"contacts"`
}

// Contact is a single contact mapping (email, phone, etc).
type Contact struct {
	ID    int    `json:"contactId"`
	Type  string `json:"contactType"`
	Value string `json:"contactValue"`
}

// Organisation is an organisation identifier held against a user.
type Organisation struct {
	Scheme    string `json:"scheme"`
	ID        string `json:"id"`
	LegalName string `json:"legalName"`
}

// HasCoreRole reports whether any core role carries the given key.
// Nil or empty role lists never match.
func (u User) HasCoreRole(key string) bool {
	for _, r := range u.CoreRoles {
		if r.RoleKey == key {
			return true
		}
	}
	return false
}

// HasCoreRoleForClient reports whether any core role carries the given key
// and was assigned by the named service client.
func (u User) HasCoreRoleForClient(key, serviceClientName string) bool {
	for _, r := range u.CoreRoles {
		if r.RoleKey == key && r.ServiceClientName == serviceClientName {
			return true
		}
	}
	return false
}

// HasAdditionalRole reports whether the additional-role list carries the key.
func (u User) HasAdditionalRole(key string) bool {
	for _, r := range u.AdditionalRoles {
		if r == key {
			return true
		}
	}
	return false
}

// HasRole reports whether the key appears on either role list.
func (u User) HasRole(key string) bool {
	return u.HasCoreRole(key) || u.HasAdditionalRole(key)
}
