package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// grantslots adjusts a user's site-slot allowance directly, for support cases
// where a payment never reached the webhook (chargeback reversals, manual
// comps). Deltas can be negative; usage is never clipped.
func main() {
	var (
		idFlag    string
		emailFlag string
		slotsFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.IntVar(&slotsFlag, "slots", 0, "slot delta to apply (negative to revoke)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if slotsFlag == 0 {
		exitWithError(errors.New("-slots must be non-zero"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantslots").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 5*time.Second)
	var current struct {
		ID    string
		Email string
		Total int
		Used  int
	}
	var scanErr error
	if userID != "" {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectUserSlotsByID, userID)
		scanErr = row.Scan(&current.ID, &current.Email, &current.Total, &current.Used)
	} else {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectUserSlotsByEmail, email)
		scanErr = row.Scan(&current.ID, &current.Email, &current.Total, &current.Used)
	}
	cancelLookup()
	if scanErr != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", scanErr))
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()
	row := runner.QueryRow(updateCtx, sqlinline.QGrantUserSlots, current.ID, slotsFlag)

	var updated struct {
		ID    string
		Email string
		Total int
		Used  int
	}
	if err := row.Scan(&updated.ID, &updated.Email, &updated.Total, &updated.Used); err != nil {
		exitWithError(fmt.Errorf("failed to grant slots: %w", err))
	}

	fmt.Printf("User %s (%s): slots %d -> %d (used %d)\n",
		updated.ID, updated.Email, current.Total, updated.Total, updated.Used)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
