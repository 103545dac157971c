package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/accountstore"
	"github.com/darmiel/mcauth/internal/core"
)

var (
	greenCheck = color.GreenString("✔")
	redCross   = color.RedString("✘")

	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// BeQuietError is returned once the command has already reported the error itself.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "command failed"
}

func logError(err error, correlation, msg string) error {
	if correlation != "" {
		log.Error().Msgf("%s %s (correlation ID: %s)", redCross, msg, correlation)
	} else {
		log.Error().Msgf("%s %s", redCross, msg)
	}
	log.Error().Msgf("error: %v", err)
	return BeQuietError{}
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s %s", greenCheck, fmt.Sprintf(format, args...))
}

func applyTableFormat(t table.Writer) {
	s := table.StyleRounded
	s.Format.Header = text.FormatDefault
	t.SetStyle(s)
	t.SetOutputMirror(os.Stdout)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// resolveAccount returns the account logged in as username, or the active account if username is empty.
func resolveAccount(list *accountstore.AccountList, username string) (core.Account, error) {
	if username == "" {
		acc := list.Active()
		if acc == nil {
			return nil, fmt.Errorf("no active account, pass a username or run 'mcauth accounts use'")
		}
		return acc, nil
	}
	acc := list.Find(username)
	if acc == nil {
		return nil, fmt.Errorf("account '%s': %w", username, accountstore.ErrAccountNotFound)
	}
	return acc, nil
}

// runOperation starts op and waits for it, printing its log lines if verbose.
func runOperation(ctx context.Context, op core.Operation, verbose bool) error {
	op.Start(ctx)
	err := op.Wait(ctx)
	if verbose {
		printLogs(op.Logs())
	}
	status := op.Status()
	log.Debug().
		Str("operation", status.Name).
		Dur("duration", status.FinishedAt.Sub(status.StartedAt)).
		Msg("operation finished")
	return err
}

func printLogs(logs []core.LogEntry) {
	for _, entry := range logs {
		ts := entry.Time.Format(time.TimeOnly)

		var level string
		switch entry.Level {
		case "info":
			level = color.GreenString("inf")
		case "warn":
			level = color.YellowString("wrn")
		case "error":
			level = color.RedString("err")
		case "debug":
			level = color.New(color.Faint).Sprint("dbg")
		default:
			level = entry.Level
		}

		fmt.Printf("%s | %s | %s\n", ts, level, entry.Message)
	}
}

func printSession(session *core.Session) {
	fmt.Println(bold("\n── Session ──"))
	fmt.Printf("  %s:  %s\n", faint("Status"), sessionStatusString(session.Status))
	fmt.Printf("  %s:    %s\n", faint("Login"), session.AuthUsername)
	if session.PlayerName != "" {
		fmt.Printf("  %s:   %s (%s)\n", faint("Player"), bold(session.PlayerName), session.UUID)
		fmt.Printf("  %s:     %s\n", faint("Type"), session.UserType)
	}
}

func sessionStatusString(s core.SessionStatus) string {
	switch s {
	case core.SessionPlayableOnline:
		return color.GreenString(s.String())
	case core.SessionPlayableOffline:
		return color.YellowString(s.String())
	case core.SessionRequiresPassword:
		return color.RedString(s.String())
	default:
		return s.String()
	}
}
