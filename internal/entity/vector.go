package entity

// VectorRecord is a document stored in a vector collection
type VectorRecord struct {
	ID        string
	Document  string
	Metadata  map[string]string
	Embedding []float32
}

// VectorMatch is a nearest-neighbour hit returned by a vector collection
type VectorMatch struct {
	ID       string
	Document string
	Metadata map[string]string
	Distance float64
}

// Metadata keys stored alongside indexed knowledge items
const (
	MetaTicketID = "ticket_id"
	MetaTitle    = "titulo"
	MetaCategory = "categoria"
	MetaSolution = "solucion"
)
