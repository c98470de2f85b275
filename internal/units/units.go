// Package units holds the physical constants and unit conversions used by
// the fuel cycle model.
//
// Time axes are in years, flows in kg/s and inventories in kg unless a
// name says otherwise.
package units

import "math"

const (
	// TritiumHalfLife is the radioactive half-life of tritium [yr].
	TritiumHalfLife = 12.312

	// TritiumMolarMass is the molar mass of tritium [g/mol].
	TritiumMolarMass = 3.01604928

	// Avogadro is the Avogadro constant [1/mol].
	Avogadro = 6.02214076e23

	// GasConstant is the molar gas constant [J/(mol K)].
	GasConstant = 8.314462618

	// StandardTemperature is the reference temperature for gas throughput
	// conversions [K].
	StandardTemperature = 273.15

	// YearToSecond converts a Julian year to seconds.
	YearToSecond = 365.25 * 24 * 3600

	// SecondToYear converts seconds to Julian years.
	SecondToYear = 1 / YearToSecond
)

// TritiumDecayConstant is ln(2)/half-life [1/yr].
var TritiumDecayConstant = math.Ln2 / TritiumHalfLife

// KgPerReaction is the mass of tritium consumed by one D-T reaction [kg].
const KgPerReaction = TritiumMolarMass / Avogadro / 1000

// PaM3PerSecondToMolPerSecond converts a gas throughput in Pa m^3/s to a
// molar flow rate at StandardTemperature.
func PaM3PerSecondToMolPerSecond(q float64) float64 {
	return q / (GasConstant * StandardTemperature)
}

// GasPuffMassRate converts a gas puff throughput in Pa m^3/s to a tritium
// mass flow rate [kg/s].
func GasPuffMassRate(q float64) float64 {
	return TritiumMolarMass * PaM3PerSecondToMolPerSecond(q) / 1000
}
