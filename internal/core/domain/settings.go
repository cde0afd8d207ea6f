package domain

import (
	"fmt"
	"slices"
	"strings"
)

const unknownDescription = "Unknown"

// StorageBackend selects the directory store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists the directory in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps the directory in memory for the process lifetime.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persistent)"
	case StorageMemory:
		return "In-memory (ephemeral)"
	default:
		return unknownDescription
	}
}

// PrecedencePolicy orders location types from strongest to weakest. When
// several location fields are set, the first set type in the order wins.
type PrecedencePolicy []LocationType

// DefaultPrecedence lets dispatch and shipping locations override the main one.
func DefaultPrecedence() PrecedencePolicy {
	return PrecedencePolicy{LocationDispatch, LocationShipping, LocationMain}
}

// ParsePrecedence parses location type names into a policy.
func ParsePrecedence(names []string) (PrecedencePolicy, error) {
	policy := make(PrecedencePolicy, 0, len(names))
	for _, name := range names {
		t, err := ParseLocationType(name)
		if err != nil {
			return nil, err
		}
		policy = append(policy, t)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate checks the policy names every location type exactly once.
func (p PrecedencePolicy) Validate() error {
	if len(p) != len(LocationTypes) {
		return fmt.Errorf("%w: precedence must list %d location types, got %d",
			ErrInvalidInput, len(LocationTypes), len(p))
	}
	seen := make(map[LocationType]bool, len(p))
	for _, t := range p {
		if !t.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownLocationType, t)
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicate location type %q in precedence", ErrInvalidInput, t)
		}
		seen[t] = true
	}
	return nil
}

// Rank returns the position of t in the policy, or len(p) if absent.
func (p PrecedencePolicy) Rank(t LocationType) int {
	if i := slices.Index(p, t); i >= 0 {
		return i
	}
	return len(p)
}

// Strings returns the policy as type names.
func (p PrecedencePolicy) Strings() []string {
	out := make([]string, len(p))
	for i, t := range p {
		out[i] = t.String()
	}
	return out
}

// String returns the policy as "a > b > c".
func (p PrecedencePolicy) String() string {
	return strings.Join(p.Strings(), " > ")
}

// ResolverSettings configures the location filter resolver.
type ResolverSettings struct {
	// Precedence decides which location wins when several are set.
	Precedence PrecedencePolicy

	// QueryNamespace prefixes routine names handed to hosts.
	QueryNamespace string

	// DocumentWarehouseFields are document-level warehouse fields to restrict.
	DocumentWarehouseFields []string

	// ChildTables are child tables whose warehouse fields are restricted.
	ChildTables []string

	// ChildWarehouseFields are warehouse fields restricted inside child tables.
	ChildWarehouseFields []string
}

// RemoteSettings configures the remote query and lookup service client.
type RemoteSettings struct {
	// BaseURL is the remote site URL. Empty means the local directory answers.
	BaseURL string

	// APIKey and APISecret authenticate against the remote site.
	APIKey    string
	APISecret string

	// RateLimit is the proactive request rate in requests per second.
	RateLimit float64
}

// IsConfigured returns true if a remote site is set up.
func (r RemoteSettings) IsConfigured() bool {
	return r.BaseURL != ""
}

// ServerSettings configures the HTTP method API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// StorageSettings configures the directory store.
type StorageSettings struct {
	// Backend selects sqlite or memory.
	Backend StorageBackend

	// DataDir overrides the SQLite data directory.
	DataDir string
}

// ValidationSettings configures document validation.
type ValidationSettings struct {
	// RequireDimension requires the Location accounting dimension to be enabled.
	RequireDimension bool

	// DimensionEnabled records whether the Location dimension is enabled.
	DimensionEnabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Resolver   ResolverSettings
	Remote     RemoteSettings
	Server     ServerSettings
	Storage    StorageSettings
	Validation ValidationSettings
}

// Default setting values.
const (
	DefaultServerAddr = ":8420"
	DefaultRateLimit  = 5.0
)

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Resolver: DefaultResolverSettings(),
		Remote: RemoteSettings{
			RateLimit: DefaultRateLimit,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Validation: ValidationSettings{
			RequireDimension: true,
			DimensionEnabled: true,
		},
	}
}

// DefaultResolverSettings returns the resolver defaults.
func DefaultResolverSettings() ResolverSettings {
	return ResolverSettings{
		Precedence:              DefaultPrecedence(),
		QueryNamespace:          DefaultQueryNamespace,
		DocumentWarehouseFields: []string{FieldSetWarehouse},
		ChildTables:             []string{TableItems},
		ChildWarehouseFields:    []string{FieldWarehouse},
	}
}

// RestrictedDocumentFields returns the document warehouse fields with
// target_warehouse removed.
func (r ResolverSettings) RestrictedDocumentFields() []string {
	return withoutTargetWarehouse(r.DocumentWarehouseFields)
}

// RestrictedChildFields returns the child warehouse fields with
// target_warehouse removed.
func (r ResolverSettings) RestrictedChildFields() []string {
	return withoutTargetWarehouse(r.ChildWarehouseFields)
}

// target_warehouse is independently assignable and never restricted.
func withoutTargetWarehouse(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != FieldTargetWarehouse {
			out = append(out, f)
		}
	}
	return out
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StorageMemory}
}
