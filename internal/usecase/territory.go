package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"mfc-voice-agent/internal/domain"
	"mfc-voice-agent/internal/repository"
)

const warehouseOpsSpecialty = "warehouse operations"

// ResolveInput carries the caller's location fields. County drives the
// primary lookup; the rest are fallbacks.
type ResolveInput struct {
	County string
	Zip    string
	City   string
	State  string
}

// Resolution is the outcome of a territory/specialist lookup chain. Nil
// pointers mean "no match"; resolution never fails the caller's request.
type Resolution struct {
	Territory        *domain.Territory
	Specialist       *domain.Specialist
	WarehouseContact *domain.Specialist
}

// Resolver routes a caller's location to a territory and its staff.
type Resolver struct {
	routing repository.RoutingReader
	logger  *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(routing repository.RoutingReader, logger *slog.Logger) (*Resolver, error) {
	if routing == nil {
		return nil, errors.New("usecase: routing reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{routing: routing, logger: logger}, nil
}

// NormalizeCounty trims the input and strips one trailing case-insensitive
// "county" word, so "Beaverhead County" and "beaverhead" both match the set
// membership check.
func NormalizeCounty(county string) string {
	c := strings.TrimSpace(county)
	lower := strings.ToLower(c)
	if strings.HasSuffix(lower, " county") {
		c = strings.TrimSpace(c[:len(c)-len(" county")])
	}
	return c
}

// Resolve attempts county containment, then zip containment, then state
// equality, returning the first matching active territory and its primary
// specialist. Lookup errors are logged and degrade to an empty Resolution.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) Resolution {
	territories, err := r.routing.ActiveTerritories(ctx)
	if err != nil {
		r.logger.Error("territory lookup failed, continuing without assignment", "err", err)
		return Resolution{}
	}

	territory := matchTerritory(territories, in)
	if territory == nil {
		return Resolution{}
	}

	res := Resolution{Territory: territory}

	specialists, err := r.routing.SpecialistsForTerritory(ctx, territory.Code)
	if err != nil {
		r.logger.Error("specialist lookup failed, continuing without assignment",
			"territory", territory.Code, "err", err)
		return res
	}
	if len(specialists) > 0 {
		primary := specialists[0]
		res.Specialist = &primary
	}

	res.WarehouseContact = r.warehouseContact(ctx, res.Specialist)
	return res
}

// matchTerritory applies the fixed priority order over an already
// code-sorted territory list, so ties break toward the lowest code.
func matchTerritory(territories []domain.Territory, in ResolveInput) *domain.Territory {
	county := NormalizeCounty(in.County)
	if county != "" {
		for i := range territories {
			if containsString(territories[i].Counties, county) {
				return &territories[i]
			}
		}
	}

	if zip := strings.TrimSpace(in.Zip); zip != "" {
		for i := range territories {
			if containsString(territories[i].ZipCodes, zip) {
				return &territories[i]
			}
		}
	}

	if state := strings.TrimSpace(in.State); state != "" {
		for i := range territories {
			if strings.EqualFold(territories[i].State, state) {
				return &territories[i]
			}
		}
	}
	return nil
}

// warehouseContact finds an active specialist tagged with warehouse
// operations duties. Suppressed when it would duplicate the primary
// specialist's email as a notification recipient.
func (r *Resolver) warehouseContact(ctx context.Context, primary *domain.Specialist) *domain.Specialist {
	specialists, err := r.routing.ActiveSpecialists(ctx)
	if err != nil {
		r.logger.Error("warehouse contact lookup failed, skipping", "err", err)
		return nil
	}
	for i := range specialists {
		if !hasSpecialty(specialists[i].Specialties, warehouseOpsSpecialty) {
			continue
		}
		if primary != nil && strings.EqualFold(specialists[i].Email, primary.Email) {
			return nil
		}
		return &specialists[i]
	}
	return nil
}

func containsString(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}

func hasSpecialty(specialties []string, want string) bool {
	for _, s := range specialties {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}
