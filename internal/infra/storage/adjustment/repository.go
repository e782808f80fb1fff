package adjustment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий истории изменений ёмкости (только добавление и чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись истории слота slotKey
func (r *Repository) Create(ctx context.Context, slotKey string, a domain.CapacityAdjustment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_adjustments").
		Columns(
			"id",
			"owner_id",
			"slot_key",
			"batch_id",
			"old_value",
			"new_value",
			"action_type",
			"change_amount",
			"actor",
			"created_at",
		).
		Values(
			a.ID,
			a.OwnerID,
			slotKey,
			a.BatchID,
			a.OldValue,
			a.NewValue,
			string(a.ActionType),
			a.ChangeAmount,
			a.Actor,
			a.OccurredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListBySlotKey возвращает историю слота, новые записи первыми.
// batch_id в записях тот, что был у слота в момент изменения.
func (r *Repository) ListBySlotKey(ctx context.Context, ownerID int64, slotKey string) ([]domain.CapacityAdjustment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"batch_id",
		"old_value",
		"new_value",
		"action_type",
		"change_amount",
		"actor",
		"created_at",
	).
		From("capacity_adjustments").
		Where(squirrel.Eq{"owner_id": ownerID, "slot_key": slotKey}).
		OrderBy("created_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlotKey - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlotKey - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.CapacityAdjustment, 0)
	for rows.Next() {
		var (
			a      domain.CapacityAdjustment
			action string
			actor  sql.NullString
		)
		if err := rows.Scan(
			&a.ID,
			&a.OwnerID,
			&a.BatchID,
			&a.OldValue,
			&a.NewValue,
			&action,
			&a.ChangeAmount,
			&actor,
			&a.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBySlotKey - scan row: %v", ErrScanRow, err)
		}
		a.ActionType = domain.CapacityAction(action)
		if actor.Valid {
			value := actor.String
			a.Actor = &value
		}
		history = append(history, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySlotKey - iterate rows: %v", ErrExecQuery, err)
	}

	return history, nil
}
