package domain

import "strings"

// DefaultProvince se usa cuando la provincia no se informa o no se reconoce.
const DefaultProvince = "AB"

// DefaultDocFee es la tarifa de documentación del concesionario.
const DefaultDocFee = 799.0

// ppsaFees son las tarifas de registro PPSA (garantía mobiliaria) por provincia.
var ppsaFees = map[string]float64{
	"AB": 38.73,
	"BC": 40,
	"SK": 35,
	"MB": 35,
	"ON": 65,
	"QC": 0,
	"NB": 50,
	"NS": 50,
	"PE": 50,
	"NL": 50,
	"YT": 35,
	"NT": 35,
	"NU": 35,
}

// RegistrationFee devuelve la tarifa PPSA de la provincia (código de dos letras).
// Provincias desconocidas usan la de Alberta.
func RegistrationFee(province string) float64 {
	if fee, ok := ppsaFees[strings.ToUpper(strings.TrimSpace(province))]; ok {
		return fee
	}
	return ppsaFees[DefaultProvince]
}
