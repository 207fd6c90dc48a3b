package engine

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// FrameMaterial is a chassis/body construction material.
type FrameMaterial struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Density        float64 `yaml:"density"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	TechRequired   string  `yaml:"tech_required"`
}

// BodyType is a car silhouette with its aero and mass baseline.
type BodyType struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Class      string  `yaml:"class"`
	BaseDrag   float64 `yaml:"base_drag"`
	BaseWeight float64 `yaml:"base_weight"`
	BaseCost   int64   `yaml:"base_cost"`
	UnlockYear int     `yaml:"unlock_year"`
	EraStyle   string  `yaml:"era_style"`
}

// Body classes.
const (
	ClassPassenger = "passenger"
	ClassSport     = "sport"
	ClassSUV       = "suv"
	ClassUtility   = "utility"
)

// CosmeticPart is one selectable part within a cosmetic category.
type CosmeticPart struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	DragMod      float64 `yaml:"drag_mod"`
	WeightMod    float64 `yaml:"weight_mod"`
	Cost         int64   `yaml:"cost"`
	HandlingMod  float64 `yaml:"handling_mod"`
	AppealMod    float64 `yaml:"appeal_mod"`
	UnlockYear   int     `yaml:"unlock_year"`
	TechRequired string  `yaml:"tech_required"`
}

// CosmeticCategory groups the parts competing for one slot.
type CosmeticCategory struct {
	ID    string         `yaml:"id"`
	Parts []CosmeticPart `yaml:"parts"`
}

// FeatureOption is one selectable functional feature.
type FeatureOption struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	ComfortMod   float64 `yaml:"comfort_mod"`
	SafetyMod    float64 `yaml:"safety_mod"`
	HandlingMod  float64 `yaml:"handling_mod"`
	WeightMod    float64 `yaml:"weight_mod"`
	Cost         int64   `yaml:"cost"`
	UnlockYear   int     `yaml:"unlock_year"`
	TechRequired string  `yaml:"tech_required"`
}

// FeatureCategory groups the options competing for one slot.
type FeatureCategory struct {
	ID      string          `yaml:"id"`
	Options []FeatureOption `yaml:"options"`
}

// GearOption is a drivetrain, suspension, or tire choice.
type GearOption struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	TractionEff float64 `yaml:"traction_eff"`
	Weight      float64 `yaml:"weight"`
	Cost        int64   `yaml:"cost"`
	HandlingMod float64 `yaml:"handling_mod"`
	ComfortMod  float64 `yaml:"comfort_mod"`
	AdaptMod    float64 `yaml:"adapt_mod"`
}

// TechEffect describes what researching a technology unlocks.
type TechEffect struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// Technology is one node of the research tree.
type Technology struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Cost       int64      `yaml:"cost"`
	BaseRPCost int        `yaml:"base_rp_cost"`
	UnlockYear int        `yaml:"unlock_year"`
	Effect     TechEffect `yaml:"effect"`
}

// ClientCompany is a B2B customer that may request engine supply contracts.
type ClientCompany struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Preference string `yaml:"preference"`
}

// Catalog is the static content set: parts, features, techs, clients, and
// name pools. It is embedded in the binary and identical for every game.
type Catalog struct {
	Layouts            map[CylinderLayout]LayoutProfile `yaml:"layouts"`
	FrameMaterials     []FrameMaterial                  `yaml:"frame_materials"`
	BodyTypes          []BodyType                       `yaml:"body_types"`
	CosmeticCategories []CosmeticCategory               `yaml:"cosmetic_categories"`
	FeatureCategories  []FeatureCategory                `yaml:"feature_categories"`
	Drivetrains        []GearOption                     `yaml:"drivetrains"`
	Suspensions        []GearOption                     `yaml:"suspensions"`
	Tires              []GearOption                     `yaml:"tires"`
	TechTree           []Technology                     `yaml:"tech_tree"`
	ClientCompanies    []ClientCompany                  `yaml:"client_companies"`
	FlavorNews         []string                         `yaml:"flavor_news"`
	DriverFirstNames   []string                         `yaml:"driver_first_names"`
	DriverLastNames    []string                         `yaml:"driver_last_names"`
}

var (
	catalogOnce sync.Once
	catalog     *Catalog
	catalogErr  error
)

// DefaultCatalog parses the embedded catalog once and returns it.
func DefaultCatalog() (*Catalog, error) {
	catalogOnce.Do(func() {
		var c Catalog
		if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
			catalogErr = fmt.Errorf("failed to parse embedded catalog: %w", err)
			return
		}
		catalog = &c
	})
	return catalog, catalogErr
}

// MustCatalog is DefaultCatalog for callers that treat a broken embed as
// unrecoverable.
func MustCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// LayoutProfileFor returns the physical profile of a cylinder layout,
// falling back to I4 for unknown values.
func (c *Catalog) LayoutProfileFor(layout CylinderLayout) LayoutProfile {
	if p, ok := c.Layouts[layout]; ok {
		return p
	}
	return c.Layouts[LayoutI4]
}

// FrameMaterialByID returns the frame material with the given id.
func (c *Catalog) FrameMaterialByID(id string) (FrameMaterial, bool) {
	for _, m := range c.FrameMaterials {
		if m.ID == id {
			return m, true
		}
	}
	return FrameMaterial{}, false
}

// BodyTypeByID returns the body type with the given id.
func (c *Catalog) BodyTypeByID(id string) (BodyType, bool) {
	for _, b := range c.BodyTypes {
		if b.ID == id {
			return b, true
		}
	}
	return BodyType{}, false
}

// CosmeticPartByID searches every cosmetic category for a part id.
func (c *Catalog) CosmeticPartByID(id string) (CosmeticPart, bool) {
	for _, cat := range c.CosmeticCategories {
		for _, p := range cat.Parts {
			if p.ID == id {
				return p, true
			}
		}
	}
	return CosmeticPart{}, false
}

// FeatureOptionByID searches every feature category for an option id.
func (c *Catalog) FeatureOptionByID(id string) (FeatureOption, bool) {
	for _, cat := range c.FeatureCategories {
		for _, o := range cat.Options {
			if o.ID == id {
				return o, true
			}
		}
	}
	return FeatureOption{}, false
}

// GearByID searches drivetrains, suspensions and tires for an option id.
func (c *Catalog) GearByID(id string) (GearOption, bool) {
	for _, group := range [][]GearOption{c.Drivetrains, c.Suspensions, c.Tires} {
		for _, g := range group {
			if g.ID == id {
				return g, true
			}
		}
	}
	return GearOption{}, false
}

// TechnologyByID returns the technology with the given id.
func (c *Catalog) TechnologyByID(id string) (Technology, bool) {
	for _, t := range c.TechTree {
		if t.ID == id {
			return t, true
		}
	}
	return Technology{}, false
}

// ClientByID returns the client company with the given id.
func (c *Catalog) ClientByID(id string) (ClientCompany, bool) {
	for _, cc := range c.ClientCompanies {
		if cc.ID == id {
			return cc, true
		}
	}
	return ClientCompany{}, false
}
