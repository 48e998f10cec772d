package out

import (
	"fmt"

	"jobtrack/internal/modules/tracker/domain"
	apperrors "jobtrack/internal/platform/errors"
)

// checkRecords rejects rows a store must never hold: blank ids and fields
// outside the status and type enums.
func checkRecords(records ...domain.Record) error {
	for _, record := range records {
		if record.ID == "" {
			return fmt.Errorf("%w: record id is required", apperrors.ErrInvalidInput)
		}
		if err := record.Fields.Validate(); err != nil {
			return fmt.Errorf("%w: record %s: %w", apperrors.ErrInvalidInput, record.ID, err)
		}
	}
	return nil
}
