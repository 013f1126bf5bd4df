package model

// Resource is an immutable description of one emitted artifact fragment.
// Resources are append-only within a PBR's resource list for a given
// environment; their order is preserved end-to-end and defines the
// deterministic in-bundle order (script tags, stylesheet order, and so on).
type Resource struct {
	Type ResourceType
	// Data is the opaque byte buffer for this resource. For head/body
	// fragments it holds the literal HTML to splice in.
	Data []byte
	// ServePath is the absolute forward-slash path at which the asset
	// wishes to be served. Ignored for head/body resources.
	ServePath string
}

// NewStaticResource builds a Resource of type static, the default outcome
// for any source file without a registered extension handler.
func NewStaticResource(servePath string, data []byte) Resource {
	return Resource{Type: ResourceStatic, ServePath: servePath, Data: data}
}
