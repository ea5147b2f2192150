// Package rules implements the predefined-category classifier. A Table is
// an ordered list of categories with keyword lists; a cause is assigned to
// the first category whose keywords include a case-insensitive substring of
// the cause text. Table order is authoritative: first match wins.
package rules

import "strings"

// Category is one predefined bucket with its match keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Table is an ordered category table. It is read-only during analysis.
type Table []Category

// Classify returns the first matching category name for a cause, or
// ok=false when no category keyword occurs in the cause text.
func (t Table) Classify(cause string) (name string, ok bool) {
	lower := strings.ToLower(cause)
	for _, cat := range t {
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return cat.Name, true
			}
		}
	}
	return "", false
}

// Split classifies each distinct cause, returning the cause→category
// assignment for matched causes and the unmatched remainder in input order.
func (t Table) Split(causes []string) (assigned map[string]string, unmatched []string) {
	assigned = make(map[string]string)
	for _, cause := range causes {
		if name, ok := t.Classify(cause); ok {
			assigned[cause] = name
		} else {
			unmatched = append(unmatched, cause)
		}
	}
	return assigned, unmatched
}

// Names returns the category names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, cat := range t {
		names[i] = cat.Name
	}
	return names
}

// DefaultTable is the domain category table for telco customer-service
// causes. Ordering matters: earlier rows take precedence on overlap
// (e.g. "modem" belongs to connectivity before generic equipment).
func DefaultTable() Table {
	return Table{
		{Name: "Conectividad Internet", Keywords: []string{
			"internet", "conexion", "conectividad", "red", "wifi", "modem", "router",
		}},
		{Name: "Problemas Telefonia", Keywords: []string{
			"telefono", "llamada", "linea", "audio", "ruido", "corte", "telefonia",
		}},
		{Name: "Servicios TV", Keywords: []string{
			"television", "canal", "señal", "imagen", "tv", "decodificador", "pantalla",
		}},
		{Name: "Facturacion", Keywords: []string{
			"factura", "cobro", "pago", "cargo", "descuento", "promocion", "precio",
		}},
		{Name: "Servicio Tecnico", Keywords: []string{
			"instalacion", "reparacion", "tecnico", "mantenimiento", "configuracion",
		}},
		{Name: "Atencion Cliente", Keywords: []string{
			"atencion", "servicio", "informacion", "consulta", "reclamo", "queja",
		}},
		{Name: "Equipos", Keywords: []string{
			"equipo", "dispositivo", "modem", "router", "decodificador", "antena",
		}},
		{Name: "Suspension Servicio", Keywords: []string{
			"suspension", "corte", "desconexion", "mora", "bloqueo",
		}},
		{Name: "Migraciones", Keywords: []string{
			"migracion", "cambio", "traslado", "mudanza", "transferencia",
		}},
		{Name: "Configuracion", Keywords: []string{
			"configuracion", "parametro", "ajuste", "programacion", "setup",
		}},
	}
}
