package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// wrapRepoErr keeps common.ErrorNotFound visible to callers and turns any
// other repository failure into common.ErrorInternal.
func wrapRepoErr(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
