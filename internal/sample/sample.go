// Package sample generates realistic fixture batches: a ticket population
// over a cause catalog wide enough to exercise the simplification pipeline
// (tech, commercial and administrative causes), plus matching call-volume
// and survey records. Generation is seeded, so fixtures are reproducible.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soportebi/faro/pkg/faro/kpi"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

// causeCatalog mimics the label sprawl of a real ticketing tool: many
// near-duplicate free-text causes across the technical, commercial and
// administrative domains.
var causeCatalog = []string{
	// technical
	"Sin señal TV canal específico", "Lentitud navegación específica",
	"Corte intermitente fibra", "Ruido línea telefónica matutino",
	"Falla WiFi 5GHz específica", "Error configuración router modelo X",
	"Interferencia microondas", "Sobrecalentamiento ONT verano",
	"Falla cable coaxial humedad", "Error DNS específico",
	"Congestión nodo hora pico", "Falla amplificador sector norte",
	"Problema sincronización ADSL", "Error DHCP renovación",
	"Falla splitter antiguo", "Problema NAT específico",
	"Error VoIP codecs", "Problema QoS streaming",
	"Error firewall bloqueo", "Falla modem DOCSIS 3.0",
	"Problema VPN corporativa", "Error configuración VLAN",
	"Falla fibra empalme", "Error protocolo PPPoE",
	"Internet lento", "Internet lento hoy", "Internet intermitente",
	// commercial
	"Consulta plan específico región A", "Duda promoción temporal",
	"Cambio plan mayor capacidad", "Downgrade plan básico",
	"Duda facturación detallada", "Reclamo cargo no reconocido",
	"Cambio ciclo facturación", "Consulta plan empresarial",
	"Cambio titular cuenta", "Reclamo doble cobro",
	"Consulta portabilidad", "Cambio método pago",
	"Reclamo promoción no aplicada", "Duda términos contrato",
	"Consulta suspensión temporal", "Cambio dirección facturación",
	"Facturación duplicada", "Consulta migración tecnología",
	// administrative
	"Actualización datos personales específicos", "Cambio email contacto",
	"Solicitud certificado ingresos", "Consulta historial pagos",
	"Cambio fecha vencimiento", "Solicitud factura duplicada",
	"Consulta saldo a favor", "Solicitud constancia servicio",
	"Cambio PIN seguridad", "Solicitud bloqueo línea",
	"Consulta cobertura zona específica", "Solicitud instalación técnica",
	"Cambio autorizado cuenta", "Solicitud visita técnica",
	"Solicitud desbloqueo equipo", "Consulta proceso reclamos",
	"Solicitud manual usuario", "Consulta app móvil",
	"Solicitud exportar datos", "Consulta programa lealtad",
}

var products = []string{"Internet", "Telefonia", "TV", "Paquetes", "Empresarial"}

var segments = []string{"VIP", "Regular", "Premium", "Corporate", "Standard"}

var escalationAreas = []string{"Soporte N2", "Ingenieria", "Back Office", "Comercial"}

var advisorNames = []string{
	"Ana Torres", "Luis Paredes", "Carmen Díaz", "Jorge Medina",
	"Lucía Fernández", "Pablo Rojas", "María Cruz", "Diego Salas",
	"Elena Vargas", "Andrés Quispe", "Sofía Herrera", "Raúl Campos",
}

// Batch is a generated fixture set.
type Batch struct {
	Tickets []ticket.Ticket
	Calls   []kpi.CallRecord
	Surveys []kpi.SurveyResponse
}

// Generate produces n tickets spread over the given number of days ending
// at end, with proportional call and survey records. The same seed always
// produces the same batch.
func Generate(seed int64, n, days int, end time.Time) Batch {
	rng := rand.New(rand.NewSource(seed))
	if days <= 0 {
		days = 30
	}

	var b Batch
	for i := 0; i < n; i++ {
		created := end.AddDate(0, 0, -rng.Intn(days)).Add(-time.Duration(rng.Intn(12*60)) * time.Minute)
		t := ticket.Ticket{
			ID:         fmt.Sprintf("TK-%06d", i+1),
			Advisor:    pick(rng, advisorNames),
			Product:    pick(rng, products),
			Segment:    pick(rng, segments),
			CreatedAt:  created,
			Cause:      pick(rng, causeCatalog),
			CustomerID: fmt.Sprintf("CU-%04d", rng.Intn(800)+1),
			Priority:   pick(rng, []string{"Alta", "Media", "Baja"}),
		}
		t.VIP = t.Segment == "VIP"

		// A small share arrives without a cause, like real exports do.
		if rng.Float64() < 0.03 {
			t.Cause = ""
		}

		switch v := rng.Float64(); {
		case v < 0.70:
			t.Status = ticket.StatusResolved
			t.ResolutionMinutes = 30 + rng.Intn(600)
			t.ResolvedAt = created.Add(time.Duration(t.ResolutionMinutes) * time.Minute)
		case v < 0.80:
			t.Status = ticket.StatusClosed
			t.ResolutionMinutes = 30 + rng.Intn(900)
			t.ResolvedAt = created.Add(time.Duration(t.ResolutionMinutes) * time.Minute)
		case v < 0.92:
			t.Status = ticket.StatusEscalated
			t.EscalatedArea = pick(rng, escalationAreas)
		default:
			t.Status = ticket.StatusInProgress
		}

		if t.Resolved() && rng.Float64() < 0.12 {
			t.Reopened = true
		}

		b.Tickets = append(b.Tickets, t)
	}

	for d := 0; d < days; d++ {
		date := end.AddDate(0, 0, -d)
		for _, advisor := range advisorNames[:4] {
			received := 40 + rng.Intn(80)
			b.Calls = append(b.Calls, kpi.CallRecord{
				Advisor:   advisor,
				Date:      date,
				Received:  received,
				Abandoned: rng.Intn(received / 6),
			})
		}
	}

	surveyCount := n / 5
	for i := 0; i < surveyCount; i++ {
		b.Surveys = append(b.Surveys, kpi.SurveyResponse{
			Date:    end.AddDate(0, 0, -rng.Intn(days)),
			Product: pick(rng, products),
			Segment: pick(rng, segments),
			Advisor: pick(rng, advisorNames),
			Score:   rng.Intn(11),
		})
	}

	return b
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
