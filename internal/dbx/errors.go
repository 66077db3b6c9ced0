package dbx

import (
	"fmt"

	"github.com/dmitrijs2005/herocards/internal/common"
)

// Unavailable tags a driver failure with common.ErrStorageUnavailable while
// keeping the original error in the chain.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStorageUnavailable, err)
}
