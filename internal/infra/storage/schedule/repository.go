package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий недельных расписаний (дни и слоты в каноническом виде)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOwner возвращает расписание владельца.
// Дни, которых нет в таблице, в результат не попадают.
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day", "enabled").
		From("schedule_days").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - build days query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - execute days query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(domain.CanonicalSchedule)
	for rows.Next() {
		var (
			day     int
			enabled bool
		)
		if err := rows.Scan(&day, &enabled); err != nil {
			return nil, fmt.Errorf("%w: GetByOwner - scan day: %v", ErrScanRow, err)
		}
		result[domain.WeekDay(day).String()] = domain.CanonicalDay{Enabled: enabled, Slots: []domain.CanonicalSlot{}}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - iterate days: %v", ErrExecQuery, err)
	}

	if len(result) == 0 {
		return nil, ErrScheduleNotFound
	}

	slots, err := r.listSlots(ctx, executor, ownerID)
	if err != nil {
		return nil, err
	}

	for _, s := range slots {
		name := s.day.String()
		d := result[name]
		d.Slots = append(d.Slots, s.slot)
		result[name] = d
	}

	return result, nil
}

type storedSlot struct {
	day  domain.WeekDay
	slot domain.CanonicalSlot
}

func (r *Repository) listSlots(ctx context.Context, executor DBExecutor, ownerID int64) ([]storedSlot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From("schedule_slots").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("day", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listSlots - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var slots []storedSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: listSlots - %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listSlots - iterate: %v", ErrExecQuery, err)
	}

	return slots, nil
}

// Replace заменяет расписание владельца целиком.
// У каждого слота должен быть slot_key; ёмкость пишется как есть, сверку делает сервис.
// Должен вызываться внутри транзакции, иначе читатели могут увидеть частично записанную неделю.
func (r *Repository) Replace(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"schedule_slots", "schedule_days"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"owner_id": ownerID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build delete %s: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - delete %s: %v", ErrExecQuery, table, err)
		}
	}

	days := psqlbuilder.Insert("schedule_days").Columns("owner_id", "day", "enabled")
	slots := psqlbuilder.Insert("schedule_slots").Columns(
		"owner_id",
		"slot_key",
		"batch_id",
		"day",
		"position",
		"time_from",
		"time_to",
		"break_from",
		"break_to",
		"token",
		"unlimited",
		"enabled",
	)
	slotCount := 0

	for _, day := range domain.AllWeekDays() {
		cd, ok := schedule[day.String()]
		if !ok {
			cd = domain.CanonicalDay{}
		}
		days = days.Values(ownerID, day.Index(), cd.Enabled)

		for i, s := range cd.Slots {
			slots = slots.Values(
				ownerID,
				s.SlotKey,
				domain.AddressOf(day, i),
				day.Index(),
				i,
				s.From,
				s.To,
				s.BreakFrom,
				s.BreakTo,
				s.Token,
				s.Unlimited,
				s.IsEnabled(),
			)
			slotCount++
		}
	}

	query, args, err := days.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert days: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - insert days: %v", ErrExecQuery, err)
	}

	if slotCount == 0 {
		return nil
	}

	query, args, err = slots.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert slots: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - insert slots: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSlotForUpdate читает слот и блокирует строку до конца транзакции
func (r *Repository) GetSlotForUpdate(ctx context.Context, ownerID int64, batchID string) (*domain.CanonicalSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("schedule_slots").
		Where(squirrel.Eq{"owner_id": ownerID, "batch_id": batchID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotForUpdate - build query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: GetSlotForUpdate - %v", ErrScanRow, err)
	}

	return &s.slot, nil
}

// UpdateToken записывает новую ёмкость слота
func (r *Repository) UpdateToken(ctx context.Context, ownerID int64, batchID string, token int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_slots").
		Set("token", token).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"owner_id": ownerID, "batch_id": batchID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateToken - build query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateToken - execute: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateToken - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

var slotColumns = []string{
	"day",
	"slot_key",
	"batch_id",
	"time_from",
	"time_to",
	"break_from",
	"break_to",
	"token",
	"unlimited",
	"enabled",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (storedSlot, error) {
	var (
		day     int
		enabled bool
		s       storedSlot
	)
	if err := row.Scan(
		&day,
		&s.slot.SlotKey,
		&s.slot.BatchID,
		&s.slot.From,
		&s.slot.To,
		&s.slot.BreakFrom,
		&s.slot.BreakTo,
		&s.slot.Token,
		&s.slot.Unlimited,
		&enabled,
	); err != nil {
		return storedSlot{}, err
	}
	s.day = domain.WeekDay(day)
	s.slot.Enabled = &enabled
	return s, nil
}
