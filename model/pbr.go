package model

// PBR (Package Bundling Record) is the per-(package, role) workspace
// holding a package's contributions to the bundle. Identity is the pair
// (Role, Package.ID()).
type PBR struct {
	Package Package
	Role    Role

	// Presence records, per environment, whether this PBR has been
	// reached by the Dependency Resolver for that environment.
	Presence map[Environment]bool

	// Resources holds, per environment, the ordered list of Resources
	// contributed by this PBR. Append-only during C5/C6; read-only from
	// C7 onward.
	Resources map[Environment][]Resource

	// Deps is the set of source-relative paths that influenced this PBR,
	// recorded for a development watcher (not otherwise consumed by the
	// core pipeline).
	Deps map[string]struct{}
}

// NewPBR creates an empty PBR for the given package and role.
func NewPBR(pkg Package, role Role) *PBR {
	return &PBR{
		Package:  pkg,
		Role:     role,
		Presence: make(map[Environment]bool, len(Environments)),
		Resources: map[Environment][]Resource{
			EnvClient: {},
			EnvServer: {},
		},
		Deps: make(map[string]struct{}),
	}
}

// Key returns the PBR's bundle-wide identity.
func (p *PBR) Key() PBRKey {
	return PBRKey{Role: p.Role, PackageID: p.Package.ID()}
}

// AddResource appends a resource to this PBR's list for the given
// environment, preserving declaration order.
func (p *PBR) AddResource(env Environment, r Resource) {
	p.Resources[env] = append(p.Resources[env], r)
}

// AddDep records that relPath influenced this PBR.
func (p *PBR) AddDep(relPath string) {
	p.Deps[relPath] = struct{}{}
}

// PBRKey identifies a PBR within a Bundle.
type PBRKey struct {
	Role      Role
	PackageID string
}
