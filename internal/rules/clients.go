package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// Client states as recorded in the business impact table
const (
	StateProduction     = "Producción"
	StateChurnRisk      = "En Riesgo de Churn"
	StateIntegration    = "Integración"
	StateHighUsage      = "Producción (Alto Consumo)"
	StateCriticalInProd = "Producción (Crítico)"
)

// ClientImpact describes the business weight of a client
type ClientImpact struct {
	Name           string `json:"nombre"`
	MRR            int    `json:"mrr"`
	State          string `json:"estado"`
	CriticalImpact bool   `json:"impacto_critico,omitempty"`
}

// ChurnRisk reports whether the client is flagged as at risk of churning
func (c ClientImpact) ChurnRisk() bool {
	return c.State == StateChurnRisk
}

// BoostHints returns the prompt hints derived from the client flags
func (c ClientImpact) BoostHints() []string {
	var hints []string
	if c.ChurnRisk() {
		hints = append(hints, "Puede subir prioridad si es P3/P4")
	}
	if c.CriticalImpact {
		hints = append(hints, "Impacto crítico: probabilidad de P1 o P2")
	}
	return hints
}

var defaultClients = []ClientImpact{
	{Name: "TechFin Solutions", MRR: 15000, State: StateChurnRisk},
	{Name: "Retail Express", MRR: 5000, State: StateProduction, CriticalImpact: true},
	{Name: "LegalVerify Corp", MRR: 8000, State: StateProduction},
	{Name: "Logística Rápida", MRR: 2500, State: StateChurnRisk, CriticalImpact: true},
	{Name: "Recursos Humanos S.A.", MRR: 1200, State: StateProduction},
	{Name: "Marketing Cloud E-commerce", MRR: 20000, State: StateHighUsage, CriticalImpact: true},
	{Name: "Global", MRR: 7500, State: StateChurnRisk},
	{Name: "HealthSecure", MRR: 3000, State: StateIntegration},
	{Name: "Banco del Mañana", MRR: 35000, State: StateCriticalInProd, CriticalImpact: true},
	{Name: "Telecom Innova", MRR: 6500, State: StateIntegration},
}

// ClientTable is the read-only client business impact table
type ClientTable struct {
	clients []ClientImpact
	byName  map[string]ClientImpact
}

func NewClientTable(clients []ClientImpact) *ClientTable {
	t := &ClientTable{
		clients: make([]ClientImpact, 0, len(clients)),
		byName:  make(map[string]ClientImpact, len(clients)),
	}
	for _, c := range clients {
		if _, ok := t.byName[c.Name]; ok {
			continue
		}
		t.clients = append(t.clients, c)
		t.byName[c.Name] = c
	}
	return t
}

// DefaultClientTable returns the built-in client table
func DefaultClientTable() *ClientTable {
	return NewClientTable(defaultClients)
}

// LoadClientTable reads a client table from a JSON file of the form
// {"clientes": [{"nombre": ..., "mrr": ..., "estado": ..., "impacto_critico": ...}]}.
// An empty path yields the built-in table.
func LoadClientTable(path string) (*ClientTable, error) {
	if path == "" {
		return DefaultClientTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clients file: %w", err)
	}

	var file struct {
		Clients []ClientImpact `json:"clientes"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse clients JSON: %w", err)
	}

	if len(file.Clients) == 0 {
		return nil, fmt.Errorf("clients file contains no clients: %s", path)
	}

	for i, c := range file.Clients {
		if c.Name == "" {
			return nil, fmt.Errorf("client #%d has no name", i+1)
		}
	}

	return NewClientTable(file.Clients), nil
}

// Clients returns the clients in table order
func (t *ClientTable) Clients() []ClientImpact {
	out := make([]ClientImpact, len(t.clients))
	copy(out, t.clients)
	return out
}

// Lookup returns the impact entry of a client by exact name
func (t *ClientTable) Lookup(name string) (ClientImpact, bool) {
	c, ok := t.byName[name]
	return c, ok
}
