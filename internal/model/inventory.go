package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryProfile is a catalog record for a purchasable bar type.
type InventoryProfile struct {
	ID               string            `json:"id"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	ProfileType      string            `json:"profile_type,omitempty"`
	LengthMm         int               `json:"length_mm"`
	StockQuantity    *int              `json:"stock_quantity"` // On-hand bars; nil = not tracked
	ScrapAllowanceMm int               `json:"scrap_allowance_mm"`
	PricePerBar      decimal.Decimal   `json:"price_per_bar"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// NewInventoryProfile creates a tracked catalog record with a generated ID.
func NewInventoryProfile(sku, name, profileType string, lengthMm, stockQuantity, scrapAllowanceMm int) InventoryProfile {
	qty := stockQuantity
	return InventoryProfile{
		ID:               uuid.New().String(),
		SKU:              sku,
		Name:             name,
		ProfileType:      profileType,
		LengthMm:         lengthMm,
		StockQuantity:    &qty,
		ScrapAllowanceMm: scrapAllowanceMm,
		PricePerBar:      decimal.Zero,
	}
}

// OnHand returns the tracked bar count and whether stock is tracked at all.
func (p InventoryProfile) OnHand() (int, bool) {
	if p.StockQuantity == nil {
		return 0, false
	}
	return *p.StockQuantity, true
}

// InStock reports whether at least one bar may be planned.
func (p InventoryProfile) InStock() bool {
	n, tracked := p.OnHand()
	return !tracked || n > 0
}

// ToStockProfile converts the record into the planner snapshot. Untracked
// profiles become unlimited.
func (p InventoryProfile) ToStockProfile() StockProfile {
	n, _ := p.OnHand()
	sp := NewStockProfile(p.ID, p.LengthMm, p.ScrapAllowanceMm, n)
	sp.ProfileType = p.ProfileType
	return sp
}

// PricePerMm returns the bar price spread over its length.
func (p InventoryProfile) PricePerMm() decimal.Decimal {
	if p.LengthMm <= 0 {
		return decimal.Zero
	}
	return p.PricePerBar.Div(decimal.NewFromInt(int64(p.LengthMm)))
}

// Inventory holds the stock-profile catalog.
type Inventory struct {
	Profiles []InventoryProfile `json:"profiles"`
}

// DefaultInventory returns the standard uPVC stock lengths.
func DefaultInventory() Inventory {
	frameA := NewInventoryProfile("PVC-6400-A", "uPVC Stock Length 6.4m", "Frame-A", 6400, 24, 35)
	frameA.PricePerBar = decimal.RequireFromString("48.50")
	frameA.Metadata = map[string]string{"color": "traffic white"}

	frameB := NewInventoryProfile("PVC-5200-B", "uPVC Stock Length 5.2m", "Frame-B", 5200, 30, 35)
	frameB.PricePerBar = decimal.RequireFromString("41.20")
	frameB.Metadata = map[string]string{"color": "anthracite"}

	reinforcement := NewInventoryProfile("PVC-3100-H", "Steel Reinforcement 3.1m", "Reinforcement", 3100, 40, 20)
	reinforcement.PricePerBar = decimal.RequireFromString("17.90")

	return Inventory{Profiles: []InventoryProfile{frameA, frameB, reinforcement}}
}

// StockProfiles returns the planner snapshot of the catalog in catalog
// order. Untracked profiles (nil StockQuantity) are passed with quantity 0,
// which the planner reads as unlimited. Tracked profiles with nothing on
// hand are left out entirely rather than passed as 0, so an exhausted
// profile is never planned as unlimited stock.
func (inv Inventory) StockProfiles() []StockProfile {
	out := make([]StockProfile, 0, len(inv.Profiles))
	for _, p := range inv.Profiles {
		if !p.InStock() {
			continue
		}
		out = append(out, p.ToStockProfile())
	}
	return out
}

// FindByID returns a pointer to the profile with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *InventoryProfile {
	for i := range inv.Profiles {
		if inv.Profiles[i].ID == id {
			return &inv.Profiles[i]
		}
	}
	return nil
}

// FindBySKU returns a pointer to the profile with the given SKU, or nil.
func (inv *Inventory) FindBySKU(sku string) *InventoryProfile {
	for i := range inv.Profiles {
		if inv.Profiles[i].SKU == sku {
			return &inv.Profiles[i]
		}
	}
	return nil
}

// Names returns the profile names in catalog order.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Profiles))
	for i, p := range inv.Profiles {
		names[i] = p.Name
	}
	return names
}

// Add appends a profile, rejecting duplicate IDs and SKUs.
func (inv *Inventory) Add(p InventoryProfile) error {
	if inv.FindByID(p.ID) != nil {
		return fmt.Errorf("profile id %q already exists", p.ID)
	}
	if p.SKU != "" && inv.FindBySKU(p.SKU) != nil {
		return fmt.Errorf("profile sku %q already exists", p.SKU)
	}
	inv.Profiles = append(inv.Profiles, p)
	return nil
}

// Remove deletes a profile by ID. Returns true if found and removed.
func (inv *Inventory) Remove(id string) bool {
	for i, p := range inv.Profiles {
		if p.ID == id {
			inv.Profiles = append(inv.Profiles[:i], inv.Profiles[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks the catalog the same way the planner input is validated.
func (inv Inventory) Validate() error {
	all := make([]StockProfile, len(inv.Profiles))
	for i, p := range inv.Profiles {
		if n, tracked := p.OnHand(); tracked && n < 0 {
			return &InvalidConfigurationError{
				Field:  fmt.Sprintf("profiles[%d]", i),
				Reason: fmt.Sprintf("stock quantity must not be negative, got %d", n),
			}
		}
		all[i] = p.ToStockProfile()
	}
	return ValidatePlanInput(all, nil)
}

// Consume returns a copy of the inventory with the bars opened by plan
// removed from stock. Untracked profiles are left alone. It fails without
// changing anything when a tracked profile would go below zero or the plan
// references an unknown profile.
func (inv Inventory) Consume(plan CutPlanComputation) (Inventory, error) {
	out := Inventory{Profiles: make([]InventoryProfile, len(inv.Profiles))}
	copy(out.Profiles, inv.Profiles)

	for id, n := range plan.BarsByProfile() {
		p := out.FindByID(id)
		if p == nil {
			return inv, fmt.Errorf("plan references unknown profile %q", id)
		}
		onHand, tracked := p.OnHand()
		if !tracked {
			continue
		}
		if n > onHand {
			return inv, &InsufficientInventoryError{LengthMm: p.LengthMm, Preference: p.ID}
		}
		left := onHand - n
		p.StockQuantity = &left
	}
	return out, nil
}
