package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Module is an optional feature area a condominium can switch on or off.
type Module string

const (
	ModuleEquipment     Module = "equipment"
	ModuleMaintenance   Module = "maintenance"
	ModuleReadings      Module = "readings"
	ModuleHR            Module = "hr"
	ModuleMarket        Module = "market"
	ModuleTeams         Module = "teams"
	ModuleActivities    Module = "activities"
	ModuleAnnouncements Module = "announcements"
	ModuleReports       Module = "reports"
)

var AllModules = []Module{
	ModuleEquipment, ModuleMaintenance, ModuleReadings, ModuleHR, ModuleMarket,
	ModuleTeams, ModuleActivities, ModuleAnnouncements, ModuleReports,
}

func ParseModule(s string) (Module, error) {
	for _, m := range AllModules {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown module %q", s)
}

// ModulePermissions holds the per-tenant flags. A module with no entry is enabled.
type ModulePermissions map[Module]bool

func (p ModulePermissions) Enabled(m Module) bool {
	enabled, ok := p[m]
	return !ok || enabled
}

// Complete returns a copy with every known module present.
func (p ModulePermissions) Complete() ModulePermissions {
	out := make(ModulePermissions, len(AllModules))
	for _, m := range AllModules {
		out[m] = p.Enabled(m)
	}
	return out
}

type PermissionRepository interface {
	Get(ctx context.Context, condominiumID uuid.UUID) (ModulePermissions, error)
	Set(ctx context.Context, condominiumID uuid.UUID, perms ModulePermissions) error
}

// PermissionSource is a read-through view over the repository, usually cached.
type PermissionSource interface {
	Permissions(ctx context.Context, condominiumID uuid.UUID) (ModulePermissions, error)
	Invalidate(ctx context.Context, condominiumID uuid.UUID) error
}
