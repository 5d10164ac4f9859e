package inventory

import "encoding/json"

// DTOs raw del feed del DMS. Solo se usan dentro de este paquete.
// La conversión a domain.Vehicle se hace en mapping.go.

// vehiclesPage es la respuesta paginada de GET /vehicles.
type vehiclesPage struct {
	Page     int           `json:"page"`
	PerPage  int           `json:"per_page"`
	Total    int           `json:"total"`
	Vehicles []feedVehicle `json:"vehicles"`
}

// feedVehicle es una unidad tal como la publica el DMS. Los importes llegan
// como string o número según la versión del feed.
type feedVehicle struct {
	StockNumber string      `json:"stock_number"`
	VIN         string      `json:"vin"`
	Year        int         `json:"year"`
	Make        string      `json:"make"`
	Model       string      `json:"model"`
	Trim        string      `json:"trim"`
	Odometer    int         `json:"odometer"`
	Cost        json.Number `json:"cost"`
	ListPrice   json.Number `json:"list_price"`
	BookValue   json.Number `json:"book_value"`
	Status      string      `json:"status"`
}
