package scholarship

import (
	"fmt"
	"strings"
)

type Records struct {
	Items []*Record
}

func (r *Records) Len() int {
	return len(r.Items)
}

func (r *Records) FindByID(id string) *Record {
	for _, record := range r.Items {
		if record.ID == id {
			return record
		}
	}
	return nil
}

func (r *Records) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, record := range r.Items {
		ids = append(ids, record.ID)
	}
	return ids
}

// Titles returns "title (id)" labels, used for logging.
func (r *Records) Titles() []string {
	titles := make([]string, 0, len(r.Items))
	for _, record := range r.Items {
		titles = append(titles, fmt.Sprintf("%s (%s)", record.Title, record.ID))
	}
	return titles
}

// Validate checks every record and reports duplicate ids.
func (r *Records) Validate() error {
	seen := make(map[string]struct{}, len(r.Items))
	for idx, record := range r.Items {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("record #%d: %w", idx, err)
		}

		id := strings.TrimSpace(record.ID)
		if id == "" {
			return fmt.Errorf("%w: record #%d has no id", ErrMalformedRecord, idx)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformedRecord, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
