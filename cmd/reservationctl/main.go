// Command reservationctl is a terminal client for the reservation
// system.  It covers the same flows as the web frontend: account
// registration and login, listing reservations (your own or everyone's),
// viewing one reservation, creating, updating and deleting with a
// confirmation step, and the public filter.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-client/internal/api"
	"github.com/iliyamo/reservation-client/internal/config"
	"github.com/iliyamo/reservation-client/internal/controller"
	"github.com/iliyamo/reservation-client/internal/model"
	"github.com/iliyamo/reservation-client/internal/store"
)

const version = "0.1.0"

const usage = `Reservation system client.

The API base URL is read from the API_URL environment variable
(a .env file in the working directory is honored).

Usage:
    reservationctl register --username=<name> --email=<email> --password=<password>
    reservationctl login --email=<email> --password=<password>
    reservationctl logout
    reservationctl list [--all]
    reservationctl view <id>
    reservationctl create --service=<title> --details=<text> --date=<yyyy-mm-dd>
    reservationctl update <id> [--service=<title>] [--details=<text>] [--date=<yyyy-mm-dd>]
    reservationctl delete <id> [--yes]
    reservationctl filter --username=<name> --service=<title> --from=<yyyy-mm-dd> --to=<yyyy-mm-dd>

Options:
    -h --help               Show this screen.
    --version               Show version.
    --all                   List everyone's reservations instead of your own.
    --yes                   Skip the delete confirmation prompt.
    --username=<name>       Username (registration or filter).
    --email=<email>         Account email.
    --password=<password>   Account password.
    --service=<title>       Service title.
    --details=<text>        Reservation details.
    --date=<yyyy-mm-dd>     Reservation date.
    --from=<yyyy-mm-dd>     Filter range start (inclusive).
    --to=<yyyy-mm-dd>       Filter range end (inclusive).`

// app bundles everything a command needs.
type app struct {
	cfg     config.Config
	files   *store.FileStore
	session store.Session
	client  *api.Client
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}

	cfg := config.Load()
	files := store.NewFileStore(cfg.CredentialsFile)
	session, err := files.Load()
	if err != nil && err != store.ErrNotLoggedIn {
		log.Fatal().Err(err).Str("path", cfg.CredentialsFile).Msg("cannot read credentials")
	}
	if session.Expired(time.Now()) {
		log.Warn().Msg("stored session token has expired; run login again")
	}

	a := &app{
		cfg:     cfg,
		files:   files,
		session: session,
		client:  api.NewClient(cfg.APIURL, session, api.WithTimeout(cfg.HTTPTimeout)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	switch {
	case command(opts, "register"):
		a.register(ctx, opts)
	case command(opts, "login"):
		a.login(ctx, opts)
	case command(opts, "logout"):
		a.logout()
	case command(opts, "list"):
		a.list(ctx, opts)
	case command(opts, "view"):
		a.view(ctx, opts)
	case command(opts, "create"):
		a.create(ctx, opts)
	case command(opts, "update"):
		a.update(ctx, opts)
	case command(opts, "delete"):
		a.delete(ctx, opts)
	case command(opts, "filter"):
		a.filter(ctx, opts)
	}
}

func command(opts docopt.Opts, name string) bool {
	on, _ := opts.Bool(name)
	return on
}

func stringOpt(opts docopt.Opts, name string) string {
	v, _ := opts.String(name)
	return v
}

// newController builds a sync controller over the API client with the
// given credentials and runs the initial fetch.
func (a *app) newController(ctx context.Context, creds controller.CredentialReader) *controller.Controller {
	ctl := controller.New(a.client, creds, log.Logger)
	ctl.Initialize(ctx)
	return ctl
}

// requireSession aborts unless the user is logged in.
func (a *app) requireSession() {
	if _, ok := a.session.ViewerID(); !ok {
		log.Fatal().Msg("not logged in; run: reservationctl login")
	}
}

func (a *app) register(ctx context.Context, opts docopt.Opts) {
	username := stringOpt(opts, "--username")
	email := stringOpt(opts, "--email")
	password := stringOpt(opts, "--password")
	if err := a.client.Register(ctx, username, email, password); err != nil {
		fatalAPIError(err, "registration failed")
	}
	fmt.Printf("Registered %s. You can log in now.\n", username)
}

func (a *app) login(ctx context.Context, opts docopt.Opts) {
	email := stringOpt(opts, "--email")
	password := stringOpt(opts, "--password")
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		fatalAPIError(err, "login failed")
	}
	sess := store.Session{
		Token:    resp.Token,
		UserID:   resp.UserID,
		Email:    resp.Email,
		Username: resp.Username,
	}
	if err := a.files.Save(sess); err != nil {
		log.Fatal().Err(err).Msg("cannot save credentials")
	}
	fmt.Printf("Logged in as %s (user %s).\n", resp.Username, resp.UserID)
}

func (a *app) logout() {
	if err := a.files.Clear(); err != nil {
		log.Fatal().Err(err).Msg("cannot clear credentials")
	}
	fmt.Println("Logged out.")
}

func (a *app) list(ctx context.Context, opts docopt.Opts) {
	var creds controller.CredentialReader = a.session
	if all, _ := opts.Bool("--all"); all {
		creds = controller.Guest{}
	} else {
		a.requireSession()
	}
	ctl := a.newController(ctx, creds)
	defer ctl.Close()
	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	printReservations(state.Reservations)
}

func (a *app) view(ctx context.Context, opts docopt.Opts) {
	id := idArg(opts)
	var creds controller.CredentialReader = a.session
	if _, ok := a.session.ViewerID(); !ok {
		creds = controller.Guest{}
	}
	ctl := a.newController(ctx, creds)
	defer ctl.Close()
	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	target, ok := findReservation(state.Reservations, id)
	if !ok {
		log.Fatal().Uint64("id", id).Msg("reservation not found")
	}
	ctl.OpenView(target)
	v := ctl.Snapshot().Viewing
	fmt.Printf("#%d  %s\n", v.ID, v.Day())
	fmt.Printf("Service: %s\n", v.ServiceTitle)
	fmt.Printf("Details: %s\n", v.ReservationDetails)
	fmt.Printf("By:      %s <%s>\n", v.User.Username, v.User.Email)
	ctl.CloseView()
}

func (a *app) create(ctx context.Context, opts docopt.Opts) {
	a.requireSession()
	ctl := a.newController(ctx, a.session)
	defer ctl.Close()

	ctl.OpenCreate()
	ctl.UpdateDraftField("serviceTitle", stringOpt(opts, "--service"))
	ctl.UpdateDraftField("reservationDetails", stringOpt(opts, "--details"))
	ctl.UpdateDraftField("reservationDate", stringOpt(opts, "--date"))
	ctl.SubmitDraft(ctx)

	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	fmt.Printf("Created. You now have %d reservation(s).\n", len(state.Reservations))
}

func (a *app) update(ctx context.Context, opts docopt.Opts) {
	a.requireSession()
	id := idArg(opts)
	ctl := a.newController(ctx, a.session)
	defer ctl.Close()

	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	target, ok := findReservation(state.Reservations, id)
	if !ok {
		log.Fatal().Uint64("id", id).Msg("reservation not found")
	}

	ctl.OpenEdit(target)
	if v := stringOpt(opts, "--service"); v != "" {
		ctl.UpdateDraftField("serviceTitle", v)
	}
	if v := stringOpt(opts, "--details"); v != "" {
		ctl.UpdateDraftField("reservationDetails", v)
	}
	if v := stringOpt(opts, "--date"); v != "" {
		ctl.UpdateDraftField("reservationDate", v)
	}
	ctl.SubmitDraft(ctx)

	state = ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	fmt.Printf("Updated reservation %d.\n", id)
}

func (a *app) delete(ctx context.Context, opts docopt.Opts) {
	a.requireSession()
	id := idArg(opts)
	ctl := a.newController(ctx, a.session)
	defer ctl.Close()

	ctl.RequestDelete(id)
	if yes, _ := opts.Bool("--yes"); !yes {
		fmt.Printf("Cancel reservation %d? [y/N]: ", id)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			ctl.CancelDelete()
			fmt.Println("Kept.")
			return
		}
	}
	ctl.ConfirmDelete(ctx)

	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	fmt.Printf("Deleted reservation %d.\n", id)
}

func (a *app) filter(ctx context.Context, opts docopt.Opts) {
	criteria := model.FilterCriteria{
		Username:     stringOpt(opts, "--username"),
		ServiceTitle: stringOpt(opts, "--service"),
	}
	if v := stringOpt(opts, "--from"); v != "" {
		t, err := model.ParseReservationDate(v)
		if err != nil {
			log.Fatal().Str("from", v).Msg("invalid date, expected YYYY-MM-DD")
		}
		criteria.StartDate = t
	}
	if v := stringOpt(opts, "--to"); v != "" {
		t, err := model.ParseReservationDate(v)
		if err != nil {
			log.Fatal().Str("to", v).Msg("invalid date, expected YYYY-MM-DD")
		}
		criteria.EndDate = t
	}

	// Filtering is a public view; it never needs a session.
	ctl := controller.New(a.client, controller.Guest{}, log.Logger)
	defer ctl.Close()
	ctl.ApplyFilter(ctx, criteria)

	state := ctl.Snapshot()
	if state.Err != "" {
		log.Fatal().Msg(state.Err)
	}
	printReservations(state.Reservations)
}

func idArg(opts docopt.Opts) uint64 {
	raw := stringOpt(opts, "<id>")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		log.Fatal().Str("id", raw).Msg("invalid reservation id")
	}
	return id
}

func findReservation(list []model.Reservation, id uint64) (model.Reservation, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reservation{}, false
}

func printReservations(list []model.Reservation) {
	if len(list) == 0 {
		fmt.Println("No reservations.")
		return
	}
	for _, r := range list {
		fmt.Printf("#%-4d %s  %-20s %-30s %s\n",
			r.ID, r.Day(), r.ServiceTitle, r.ReservationDetails, r.User.Username)
	}
}

// fatalAPIError prints the server's own message when one is available,
// falling back to a generic label otherwise.
func fatalAPIError(err error, fallback string) {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		log.Fatal().Msg(apiErr.Message)
	}
	log.Fatal().Err(err).Msg(fallback)
}
