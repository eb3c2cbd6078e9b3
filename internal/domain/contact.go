package domain

// Contact is the normalized record written to the export file.
// Columns are exported in this order: name, role, email, company.
type Contact struct {
	Name    string
	Role    string
	Email   string
	Company string
}
