// Package optimistic реализует оптимистичное обновление: локальное изменение применяется сразу,
// а при ошибке удалённой записи откатывается.
package optimistic

import (
	"context"
	"errors"
	"fmt"
)

// ErrRevertFailed возвращается, если удалённая запись упала и откат тоже не удался
var ErrRevertFailed = errors.New("optimistic: revert failed")

// Do применяет apply, затем вызывает remote; если remote вернул ошибку, вызывается revert.
// Ошибка apply возвращается как есть, remote не вызывается.
func Do(ctx context.Context, apply func() error, remote func(ctx context.Context) error, revert func() error) error {
	if err := apply(); err != nil {
		return err
	}

	remoteErr := remote(ctx)
	if remoteErr == nil {
		return nil
	}

	if revertErr := revert(); revertErr != nil {
		return errors.Join(remoteErr, fmt.Errorf("%w: %v", ErrRevertFailed, revertErr))
	}

	return remoteErr
}
