// Package domain models exoplanet archive data and the habitability score
// derived from it.
//
// # Data Sources
//
// Planet and host-star parameters originate from the NASA Exoplanet Archive
// Planetary Systems (ps) table, queried through the TAP sync endpoint at
// https://exoplanetarchive.ipac.caltech.edu/TAP/sync. Column names follow the
// archive's conventions:
//
//	pl_bmasse / pl_bmassj   planet mass in Earth / Jupiter masses
//	pl_rade   / pl_radj     planet radius in Earth / Jupiter radii
//	pl_dens                 planet density (g/cm³)
//	pl_eqt                  equilibrium temperature (Kelvin)
//	pl_orbper               orbital period (days)
//	pl_orbsmax              semi-major axis (AU)
//	pl_orbeccen             orbital eccentricity
//	st_mass / st_rad        stellar mass / radius (solar units)
//	st_teff                 stellar effective temperature (Kelvin)
//	sy_dist                 system distance (parsecs)
//
// SIMBAD (https://simbad.cds.unistra.fr) supplements only the host star's
// sky coordinates and object type; it never overrides archive fields.
//
// # Unit Conventions
//
// Mass and radius resolve to Earth units. Earth-unit columns are preferred;
// when absent the Jupiter-unit columns are converted with the fixed factors
// 1 M_Jup = 317.8 M_Earth and 1 R_Jup = 11.2 R_Earth. When neither column is
// present the quantity is unknown — never zero, never defaulted.
//
// Archive records are sparse: any field may be missing for any planet.
// Optional quantities are represented as *float64 so that "absent" and
// "measured as zero" stay distinguishable end to end.
//
// # Habitability Scoring
//
// The total score is the unweighted sum of five bounded sub-scores, each
// produced by an ordered band table (first match wins, terminal entry is the
// known-value fallback):
//
//	temperature (≤25):  273–373K optimal | 200–400K survivable | 150–500K extreme | else lethal | unknown 10
//	gravity     (≤20):  ratio = mass/radius² in Earth units (mass alone if radius unknown)
//	                    0.5–2.0 comfortable | 0.3–3.0 adaptable | >3.0 crushing | else low | unknown 10
//	radiation   (≤20):  received = (T★/5778)⁴·R★² / d² relative to Earth
//	                    0.8–1.2 safe | 0.5–1.8 moderate | >2.0 dangerous | else low | unknown 10
//	orbit       (≤15):  e<0.1 stable | e<0.3 moderate | else highly elliptical | unknown 8
//	type        (≤20):  rocky (r∈[0.8,1.5], m∈[0.5,2]) | super-Earth (r<2, m<10) |
//	                    gas giant (r>3 or m>50) | uncertain | unknown 10
//
// The total (0–100) maps to a category band (85/70/50/30 thresholds) with
// piecewise-linear survival-chance interpolation inside each band. Missing
// input never fails a scoring call; every factor has a defined unknown
// fallback, so the all-unknown total is 48 and lands in the Challenging band.
//
// Risks and recommendations are append-only and ordered: factors in
// evaluation order (temperature, gravity, radiation, orbit, type), then the
// category message, then the atmospheric-composition check.
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of name|query|timestamp. This
// enables idempotent inserts downstream (ON CONFLICT DO NOTHING) and replay
// safety without distributed coordination. See [NewRecordID].
package domain
