package domain

import "strconv"

// ExtractPhysicalParams maps a raw NASA archive row to physical parameters.
// Pure field renaming: no computation, no defaulting. Malformed values are
// treated as absent, never as errors.
func ExtractPhysicalParams(nasa map[string]any) PhysicalParams {
	if nasa == nil {
		return PhysicalParams{}
	}
	return PhysicalParams{
		Mass:            numField(nasa, "pl_bmasse"),
		MassJupiter:     numField(nasa, "pl_bmassj"),
		Radius:          numField(nasa, "pl_rade"),
		RadiusJupiter:   numField(nasa, "pl_radj"),
		Density:         numField(nasa, "pl_dens"),
		Gravity:         numField(nasa, "pl_g"),
		EquilibriumTemp: numField(nasa, "pl_eqt"),
	}
}

// ExtractOrbitalParams maps a raw NASA archive row to orbital elements.
func ExtractOrbitalParams(nasa map[string]any) OrbitalParams {
	if nasa == nil {
		return OrbitalParams{}
	}
	return OrbitalParams{
		Period:        numField(nasa, "pl_orbper"),
		SemiMajorAxis: numField(nasa, "pl_orbsmax"),
		Eccentricity:  numField(nasa, "pl_orbeccen"),
		Inclination:   numField(nasa, "pl_orbincl"),
		Periastron:    numField(nasa, "pl_orblper"),
	}
}

// ExtractHostStar merges host-star fields from the NASA archive row and a
// SIMBAD object record. SIMBAD supplements only the object type and sky
// coordinates; archive fields always win where both are present.
func ExtractHostStar(nasa, simbad map[string]any) HostStar {
	var star HostStar
	if nasa != nil {
		star = HostStar{
			Name:         strField(nasa, "hostname"),
			Mass:         numField(nasa, "st_mass"),
			Radius:       numField(nasa, "st_rad"),
			Temperature:  numField(nasa, "st_teff"),
			Luminosity:   numField(nasa, "st_lum"),
			Metallicity:  numField(nasa, "st_met"),
			Age:          numField(nasa, "st_age"),
			Distance:     numField(nasa, "sy_dist"),
			SpectralType: strField(nasa, "st_spectype"),
			Coordinates:  extractCoordinates(nasa),
		}
	}
	if simbad != nil {
		star.ObjectType = strField(simbad, "otype")
		if star.Coordinates == nil {
			if coord, ok := simbad["coord"].(map[string]any); ok {
				star.Coordinates = extractCoordinates(coord)
			} else {
				star.Coordinates = extractCoordinates(simbad)
			}
		}
	}
	return star
}

// ExtractDiscoveryInfo maps discovery metadata from a NASA archive row.
func ExtractDiscoveryInfo(nasa map[string]any) DiscoveryInfo {
	if nasa == nil {
		return DiscoveryInfo{}
	}
	return DiscoveryInfo{
		Method:    strField(nasa, "discoverymethod"),
		Year:      numField(nasa, "disc_year"),
		Facility:  strField(nasa, "disc_facility"),
		Telescope: strField(nasa, "disc_telescope"),
	}
}

// ResolveMass returns the planet mass in Earth masses, preferring the
// Earth-unit column and falling back to the Jupiter-unit column scaled by
// [JupiterMassEarth]. Nil when neither is present.
func ResolveMass(p PhysicalParams) *float64 {
	if p.Mass != nil {
		v := *p.Mass
		return &v
	}
	if p.MassJupiter != nil {
		v := *p.MassJupiter * JupiterMassEarth
		return &v
	}
	return nil
}

// ResolveRadius returns the planet radius in Earth radii, preferring the
// Earth-unit column and falling back to the Jupiter-unit column scaled by
// [JupiterRadiusEarth]. Nil when neither is present.
func ResolveRadius(p PhysicalParams) *float64 {
	if p.Radius != nil {
		v := *p.Radius
		return &v
	}
	if p.RadiusJupiter != nil {
		v := *p.RadiusJupiter * JupiterRadiusEarth
		return &v
	}
	return nil
}

func extractCoordinates(rec map[string]any) *Coordinates {
	ra := numField(rec, "ra")
	dec := numField(rec, "dec")
	if ra == nil && dec == nil {
		return nil
	}
	return &Coordinates{RA: ra, Dec: dec}
}

// numField reads a numeric archive column. JSON numbers arrive as float64,
// but archives occasionally serialize numbers as strings; both are accepted.
// Anything else (null, objects, non-numeric text) is treated as absent.
func numField(rec map[string]any, key string) *float64 {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// strField reads a text archive column, treating non-string values as absent.
func strField(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}
