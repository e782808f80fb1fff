package adjust_capacity

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if _, _, err := domain.ParseBatchID(req.BatchID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !req.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be a positive integer, got %d", ErrInvalidInput, req.Amount)
	}

	return nil
}
