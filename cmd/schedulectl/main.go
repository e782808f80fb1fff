// schedulectl редактирует недельное расписание владельца через шлюз расписаний.
//
//	schedulectl -owner 7 show
//	schedulectl -owner 7 toggle Mon
//	schedulectl -owner 7 add Mon
//	schedulectl -owner 7 remove Mon 1
//	schedulectl -owner 7 set Mon 0 from 10:30
//	schedulectl -owner 7 available Mon 0 false
//	schedulectl -owner 7 -actor alice adjust 1:0 increase 5
//	schedulectl -owner 7 history 1:0
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ScheduleService/internal/config"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/schedulegateway"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/adjust_capacity"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/edit_schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	ownerID := flag.Int64("owner", 0, "schedule owner ID")
	actor := flag.String("actor", "", "operator recorded in capacity history")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	client := schedulegateway.NewClient(
		cfg.ScheduleGateway.URL,
		time.Duration(cfg.ScheduleGateway.Timeout)*time.Second,
		log,
	)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		client.UseRedisCache(rdb, time.Duration(cfg.Redis.HistoryTTL)*time.Second)
	}

	var actorPtr *string
	if *actor != "" {
		actorPtr = actor
	}

	ctx := context.Background()
	if err := run(ctx, client, log, *ownerID, actorPtr, flag.Args()); err != nil {
		if msg, ok := schedulegateway.RemoteMessage(err); ok {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// stdinConfirmer спрашивает подтверждение в терминале
type stdinConfirmer struct {
	in *bufio.Reader
}

func (c stdinConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Printf("%s [y/N] ", message)
	answer, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func run(
	ctx context.Context,
	client *schedulegateway.Client,
	log *logger.Logger,
	ownerID int64,
	actor *string,
	args []string,
) error {
	if len(args) == 0 {
		return errors.New("command is required: show, toggle, add, remove, set, available, adjust, history")
	}

	session := edit_schedule.NewUseCase(client, stdinConfirmer{in: bufio.NewReader(os.Stdin)}, log)
	if err := session.Open(ctx, ownerID); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "show":
		printSchedule(session.Schedule())
		printValidation(session.Validate())
		return nil

	case "history":
		if len(rest) != 1 {
			return errors.New("usage: history <batchId>")
		}
		ledger := adjust_capacity.NewUseCase(session, client, log)
		history, err := ledger.History(ctx, ownerID, rest[0])
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("no capacity changes")
		}
		for _, h := range history {
			who := "-"
			if h.Actor != nil {
				who = *h.Actor
			}
			fmt.Printf("%s  %-8s %4d -> %-4d (%+d)  %s\n",
				h.OccurredAt.Format(time.RFC3339), h.ActionType, h.OldValue, h.NewValue, h.ChangeAmount, who)
		}
		return nil

	case "adjust":
		if len(rest) != 3 {
			return errors.New("usage: adjust <batchId> <set|increase|decrease> <amount>")
		}
		action, err := domain.ParseCapacityAction(rest[1])
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(rest[2])
		if err != nil {
			return fmt.Errorf("amount must be an integer: %w", err)
		}
		ledger := adjust_capacity.NewUseCase(session, client, log)
		resp, err := ledger.Apply(ctx, &adjust_capacity.Request{
			OwnerID: ownerID,
			BatchID: rest[0],
			Action:  action,
			Amount:  amount,
			Actor:   actor,
		})
		if err != nil {
			return err
		}
		fmt.Printf("capacity of %s is now %d\n", rest[0], resp.NewValue)
		return nil
	}

	if err := edit(ctx, session, cmd, rest); err != nil {
		return err
	}

	res, err := session.Submit(ctx)
	if err != nil {
		return err
	}
	if res.PushFailures != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", res.PushFailures)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
	return nil
}

func edit(ctx context.Context, session *edit_schedule.UseCase, cmd string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s: day is required", cmd)
	}
	day, err := domain.ParseWeekDay(args[0])
	if err != nil {
		return err
	}

	index := func() (int, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%s: slot index is required", cmd)
		}
		return strconv.Atoi(args[1])
	}

	switch cmd {
	case "toggle":
		enabled, err := session.ToggleDay(ctx, day)
		if err == nil {
			fmt.Printf("%s enabled=%t\n", day, enabled)
		}
		return err

	case "add":
		ref, err := session.AddSlot(ctx, day)
		if err == nil {
			fmt.Printf("added slot %s (%s - %s)\n", ref.BatchID, ref.Slot.From, ref.Slot.To)
		}
		return err

	case "remove":
		i, err := index()
		if err != nil {
			return err
		}
		removed, err := session.RemoveSlot(ctx, day, i)
		if err == nil && !removed {
			fmt.Println("cancelled")
		}
		return err

	case "set":
		i, err := index()
		if err != nil {
			return err
		}
		if len(args) != 4 {
			return errors.New("usage: set <day> <index> <field> <value>")
		}
		return session.UpdateSlotField(ctx, day, i, domain.SlotField(args[2]), args[3])

	case "available":
		i, err := index()
		if err != nil {
			return err
		}
		if len(args) != 3 {
			return errors.New("usage: available <day> <index> <true|false>")
		}
		enabled, err := strconv.ParseBool(args[2])
		if err != nil {
			return err
		}
		return session.SetSlotAvailability(ctx, day, i, enabled)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func printSchedule(w *domain.WeeklySchedule) {
	for _, day := range domain.AllWeekDays() {
		d := w.Day(day)
		state := "off"
		if d.Enabled {
			state = "on"
		}
		fmt.Printf("%s [%s]\n", day, state)
		for i, s := range d.Slots {
			capacity := strconv.Itoa(s.Capacity)
			if s.Unlimited {
				capacity = "unlimited"
			}
			line := fmt.Sprintf("  %s  %s - %s  capacity=%s", domain.AddressOf(day, i), s.From, s.To, capacity)
			if s.HasBreak() {
				line += fmt.Sprintf("  break %s - %s", s.BreakFrom, s.BreakTo)
			}
			if !s.Enabled {
				line += "  (disabled)"
			}
			fmt.Println(line)
		}
	}
}

func printValidation(v domain.ScheduleValidation) {
	if err := v.Err(); err != nil {
		fmt.Println(err)
	}
}
