package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"apollo-gatherer/internal/domain"
)

// columns is the fixed export order. Changing it breaks downstream sheets.
var columns = []string{"name", "role", "email", "company"}

// WriteCSV overwrites path with a header row followed by one row per contact
// in the given order. Open and write failures propagate; there is no partial
// recovery.
func WriteCSV(path string, contacts []domain.Contact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range contacts {
		if err := w.Write([]string{c.Name, c.Role, c.Email, c.Company}); err != nil {
			f.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
