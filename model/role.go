package model

// Role distinguishes a package's production incarnation from its test
// incarnation. A package may appear in both roles within one bundle.
type Role string

// The two known roles. Dependencies of a test-role PBR are always resolved
// as Use-role: a package's tests may import another package's production
// code, never its tests.
const (
	RoleUse  Role = "use"
	RoleTest Role = "test"
)

// Environment is where a resource will execute: client (browser) or
// server (the runtime process).
type Environment string

// The two known environments.
const (
	EnvClient Environment = "client"
	EnvServer Environment = "server"
)

// Environments enumerates the environments in a fixed, deterministic order.
// Iterate over this slice explicitly wherever both environments of a
// package's uses/sources/exports maps need visiting; never range over a map
// and rely on incidental ordering, and never treat a map index as an
// environment name.
var Environments = []Environment{EnvClient, EnvServer}

// ResourceType is the kind of a Resource.
type ResourceType string

// Known resource types.
const (
	ResourceJS     ResourceType = "js"
	ResourceCSS    ResourceType = "css"
	ResourceHead   ResourceType = "head"
	ResourceBody   ResourceType = "body"
	ResourceStatic ResourceType = "static"
)
