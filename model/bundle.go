package model

import "github.com/SUSE/fullstack-bundler/util"

// ManifestEntry is one entry of the machine-readable manifest: a
// client-visible or internal artifact with its hash, size, and URL.
type ManifestEntry struct {
	Path      string `json:"path"`
	Where     string `json:"where"`
	Type      string `json:"type,omitempty"`
	Cacheable *bool  `json:"cacheable,omitempty"`
	URL       string `json:"url,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Hash      string `json:"hash"`
}

// Where values for a ManifestEntry.
const (
	WhereClient   = "client"
	WhereInternal = "internal"
)

// Bundle is the complete in-memory aggregate of resources and metadata
// prior to writing. It is built up by C3-C8 and consumed by C9, which still
// moves remaining client JS/CSS into ClientCacheable, clears the JS/CSS
// client lists, and appends manifest entries.
type Bundle struct {
	AppDir          string
	ReleaseManifest string
	Release         string

	pbrs        map[PBRKey]*PBR
	PBRsByOrder []*PBR

	// Files is keyed by environment then serve-path, holding the raw
	// bytes to be written at that path. ClientCacheable holds client
	// assets that have been fingerprinted for long-TTL caching.
	Files           map[Environment]map[string][]byte
	ClientCacheable map[string][]byte

	// JS/CSS/Static are ordered serve-path lists, one list per relevant
	// environment (JS and Static are emitted into both; CSS only client).
	JS     map[Environment][]string
	CSS    []string
	Static map[Environment][]string

	// NodeModulesDirs maps a bundle-relative path to the source directory
	// that should be installed there (see Writer step 9).
	NodeModulesDirs map[string]string

	Head []string
	Body []string

	Manifest []ManifestEntry

	Errors []error
}

// NewBundle creates an empty Bundle.
func NewBundle(appDir, releaseManifest, release string) *Bundle {
	return &Bundle{
		AppDir:          appDir,
		ReleaseManifest: releaseManifest,
		Release:         release,
		pbrs:            make(map[PBRKey]*PBR),
		Files: map[Environment]map[string][]byte{
			EnvClient: {},
			EnvServer: {},
		},
		ClientCacheable: make(map[string][]byte),
		JS: map[Environment][]string{
			EnvClient: {},
			EnvServer: {},
		},
		Static: map[Environment][]string{
			EnvClient: {},
			EnvServer: {},
		},
		NodeModulesDirs: make(map[string]string),
	}
}

// GetOrCreatePBR fetches the PBR keyed (role, pkg.ID()), creating and
// recording it (including in PBRsByOrder-eligible bookkeeping) if absent.
func (b *Bundle) GetOrCreatePBR(pkg Package, role Role) *PBR {
	key := PBRKey{Role: role, PackageID: pkg.ID()}
	if existing, ok := b.pbrs[key]; ok {
		return existing
	}
	pbr := NewPBR(pkg, role)
	b.pbrs[key] = pbr
	return pbr
}

// Lookup returns the PBR for (role, packageID), or nil if it was never
// created.
func (b *Bundle) Lookup(role Role, packageID string) (*PBR, bool) {
	pbr, ok := b.pbrs[PBRKey{Role: role, PackageID: packageID}]
	return pbr, ok
}

// AllPBRs returns every PBR created so far, in indeterminate map order; use
// PBRsByOrder once the Load Orderer has run.
func (b *Bundle) AllPBRs() []*PBR {
	out := make([]*PBR, 0, len(b.pbrs))
	for _, pbr := range b.pbrs {
		out = append(out, pbr)
	}
	return out
}

// AddError records a fatal pipeline error without aborting collection; the
// Orchestrator flushes these into its returned error-string list.
func (b *Bundle) AddError(err error) {
	b.Errors = append(b.Errors, err)
}

// boolPtr is a small helper for ManifestEntry.Cacheable, which distinguishes
// "not applicable" (nil) from explicitly false.
func boolPtr(v bool) *bool { return &v }

// NewManifestEntry builds a ManifestEntry, computing its hash from data via
// util.SHA1Hex.
func NewManifestEntry(path, where, typ string, cacheable *bool, url string, data []byte) ManifestEntry {
	return ManifestEntry{
		Path:      path,
		Where:     where,
		Type:      typ,
		Cacheable: cacheable,
		URL:       url,
		Size:      int64(len(data)),
		Hash:      util.SHA1Hex(data),
	}
}

// Cacheable returns a *bool helper for building ManifestEntry values.
func Cacheable(v bool) *bool { return boolPtr(v) }

// JSClientURLs returns the URLs of every client-visible JS manifest entry,
// in manifest order, for the Writer to splice into app.html's <script>
// tags (P5).
func (b *Bundle) JSClientURLs() []string {
	return manifestURLs(b.Manifest, "js")
}

// CSSURLs returns the URLs of every client-visible CSS manifest entry, in
// manifest order, for the Writer to splice into app.html's <link> tags.
func (b *Bundle) CSSURLs() []string {
	return manifestURLs(b.Manifest, "css")
}

func manifestURLs(manifest []ManifestEntry, typ string) []string {
	var out []string
	for _, entry := range manifest {
		if entry.Where == WhereClient && entry.Type == typ && entry.URL != "" {
			out = append(out, entry.URL)
		}
	}
	return out
}
