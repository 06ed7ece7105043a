package tenant

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
)

// Registry maps partner bank codes to their tenant handles. Each handle owns
// the repositories bound to that bank's isolated database; nothing outside
// the registry ever crosses tenant boundaries.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]repositories.Tenant
}

// NewRegistry creates an empty tenant registry.
func NewRegistry() *Registry {
	return &Registry{tenants: make(map[string]repositories.Tenant)}
}

// Register adds a tenant handle under its bank code. Codes are
// case-insensitive and stored uppercased.
func (r *Registry) Register(tn repositories.Tenant) error {
	code := strings.ToUpper(tn.BankCode())
	if code == "" {
		return fmt.Errorf("tenant registry: empty bank code")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tenants[code]; exists {
		return fmt.Errorf("tenant registry: bank code %q already registered", code)
	}
	r.tenants[code] = tn
	return nil
}

// Resolve returns the tenant handle for a bank code, or false when no such
// bank is configured.
func (r *Registry) Resolve(bankCode string) (repositories.Tenant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tn, ok := r.tenants[strings.ToUpper(bankCode)]
	return tn, ok
}

// BankCodes lists the registered bank codes, sorted. Used by housekeeping
// sweeps that visit every tenant.
func (r *Registry) BankCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.tenants))
	for code := range r.tenants {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
