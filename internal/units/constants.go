// Package units holds the physical constants of the simulation in SI units
// (meters, kilograms, seconds). Values follow CODATA 2018 and IAU 2015
// Resolution B3.
package units

// Labeled scalar aliases. These document the unit carried by a value at API
// boundaries without introducing conversion friction in the hot loops.
type (
	Meters            = float64
	Kilograms         = float64
	Seconds           = float64
	Watts             = float64
	Pascals           = float64
	Kelvin            = float64
	KgPerCubicMeter   = float64
	KgPerMole         = float64
	RadiansPerSecond  = float64
	MetersPerSecond   = float64
	MetersPerSecond2  = float64
)

// Gravitational constant G in m³/(kg·s²), CODATA 2018.
const G = 6.67430e-11

// C is the speed of light in vacuum in m/s (exact by definition).
const C = 299_792_458.0

// AU is the astronomical unit in meters (IAU 2012 exact definition).
const AU = 149_597_870_700.0

// Nominal masses and radii (IAU 2015).
const (
	MSun     = 1.988_409_870e30
	MEarth   = 5.972_167_867e24
	MMoon    = 7.342e22
	MJupiter = 1.898_2e27

	RSun     = 6.957e8
	REarth   = 6.3781e6
	RMoon    = 1.7374e6
	RJupiter = 7.149_2e7
)

// LSun is the solar luminosity in watts (IAU 2015 nominal).
const LSun = 3.828e26

// Thermodynamic constants (CODATA 2018, exact by redefinition).
const (
	KBoltzmann      = 1.380_649e-23
	NAvogadro       = 6.022_140_76e23
	RGas            = KBoltzmann * NAvogadro
	StefanBoltzmann = 5.670_374_419e-8
)

// Mean molecular weights in kg/mol by atmospheric composition class.
const (
	MuRocky    = 0.029 // N₂/O₂ dominated
	MuGasGiant = 0.002 // H₂/He dominated
	MuIceGiant = 0.004 // H₂/He with CH₄/H₂O enrichment
	MuDwarf    = 0.028
)

// Earth reference values.
const (
	GSurfaceEarth = 9.80665
	TSurfaceEarth = 288.0
	OmegaEarth    = 7.2921159e-5 // sidereal, rad/s
	RhoEarth      = 5514.0       // bulk density, kg/m³
	J2Earth       = 1.08263e-3
)

// Sun reference values.
const (
	TSun     = 5778.0
	OmegaSun = 2.865e-6 // sidereal, ~25.38 day period
)

const (
	SecondsPerDay  = 86_400.0
	SecondsPerYear = 365.25 * SecondsPerDay
)

// DefaultSoftening is the Plummer softening length in meters applied when a
// simulation does not override it. Two historical values exist (1e4 and 1e6);
// this module standardizes on 1e4 m.
const DefaultSoftening = 1.0e4

// DefaultBarnesHutTheta is the reference accuracy point for the tree solver.
const DefaultBarnesHutTheta = 0.5

// Capacity limits for one simulation instance.
const (
	MaxMassiveBodies = 100
	MaxTotalObjects  = 500
)

// DefaultSubsteps subdivides each tick for the integrator.
const DefaultSubsteps = 4

// RecenterThreshold is the floating-origin distance in meters beyond which
// the orchestrator subtracts a common offset from all positions.
const RecenterThreshold = 1.0e7
