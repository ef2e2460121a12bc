package shared

import "strings"

// Application modules. The set is closed by deployment-time policy so that
// audit aggregates stay meaningful; widening it is a code change.
const (
	ModuleClients       = "CLIENTS"
	ModuleFinancials    = "FINANCIALS"
	ModuleCertificates  = "CERTIFICATES"
	ModuleSchedule      = "SCHEDULE"
	ModuleConfiguration = "CONFIGURATION"
)

// Modules lists every known module name.
func Modules() []string {
	return []string{
		ModuleClients,
		ModuleFinancials,
		ModuleCertificates,
		ModuleSchedule,
		ModuleConfiguration,
	}
}

// NormalizeModule uppercases the caller-supplied module name and reports
// whether it belongs to the closed set. Stored grants and audit entries only
// ever carry the normalized form.
func NormalizeModule(value string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, m := range Modules() {
		if m == normalized {
			return normalized, true
		}
	}
	return normalized, false
}
