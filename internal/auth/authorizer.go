package auth

// Authorizer decides whether a display name carries admin privilege.
// Ambiguity fails closed: a nil Authorizer grants nothing.
type Authorizer func(name string) bool

// NameIs returns an Authorizer granting privilege to exactly one display
// name. An empty admin name grants privilege to no one.
func NameIs(admin string) Authorizer {
	return func(name string) bool {
		return admin != "" && name == admin
	}
}
