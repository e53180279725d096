// Command teller is a terminal client for the dt banking service. Each
// subcommand corresponds to one view of the original banking UI and passes
// through the navigation guard before touching the network, so protected
// views are unreachable without a cached session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dtbank/teller/internal/bankapi"
	"github.com/dtbank/teller/internal/config"
	"github.com/dtbank/teller/internal/router"
	"github.com/dtbank/teller/internal/session"
	"github.com/dtbank/teller/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	client *bankapi.Client
	store  bankapi.SessionStore
	table  *router.Table
	guard  *router.Guard
	log    *logger.Logger
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("command required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New("teller")
	log.SetLevel(cfg.LogLevel)

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return err
		}
	}
	store := session.NewFileStore(sessionPath)

	table, err := router.LoadTable(cfg.RoutesPath)
	if err != nil {
		return err
	}
	guard, err := router.NewGuard(table, store)
	if err != nil {
		return err
	}

	client, err := bankapi.New(bankapi.Config{
		BaseURL: cfg.BaseURL,
		Store:   store,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	a := &app{client: client, store: store, table: table, guard: guard, log: log}
	a.log.WithField("base_url", cfg.BaseURL).Debug("client configured")
	ctx := context.Background()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "users":
		return a.listUsers(ctx, rest)
	case "user-create":
		return a.createUser(ctx, rest)
	case "user-get":
		return a.getUser(ctx, rest)
	case "accounts":
		return a.listAccounts(ctx, rest)
	case "account-create":
		return a.createAccount(ctx, rest)
	case "deposit":
		return a.deposit(ctx, rest)
	case "transfer":
		return a.transfer(ctx, rest)
	case "audits":
		return a.listAudits(ctx, rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: teller <command> [flags]

commands:
  login          -username <name>
  logout
  whoami
  users
  user-create    -username <name>
  user-get       -id <user id>
  accounts       [-user <user id>]
  account-create [-user <user id>]
  deposit        -account <account id> -amount <n>
  transfer       -from <account id> -to <account id> -amount <n>
  audits         [-user <user id>]`)
}

// navigate runs the guard for the named route. A redirect decision means
// the command is not reachable without logging in first.
func (a *app) navigate(routeName string) error {
	route, ok := a.table.Lookup(routeName)
	if !ok {
		return fmt.Errorf("unknown route %q", routeName)
	}
	if decision := a.guard.Resolve(route); decision.Redirected {
		return fmt.Errorf("not logged in: run `teller login -username <name>` first")
	}
	return nil
}

// currentUserID resolves a -user flag, defaulting to the logged-in user.
func (a *app) currentUserID(flagValue int) (int, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	if user := a.store.Get(); user != nil {
		return user.ID, nil
	}
	return 0, fmt.Errorf("no user specified and no session cached")
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "username to log in as")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("login: -username is required")
	}
	if err := a.navigate("login"); err != nil {
		return err
	}

	user, err := a.client.Users().Login(ctx, *username)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (user %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) logout() error {
	if err := a.client.Users().Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) whoami() error {
	user := a.client.Users().Current()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (user %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) listUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.navigate("users"); err != nil {
		return err
	}

	users, err := a.client.Users().List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Username)
	}
	return w.Flush()
}

func (a *app) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-create", flag.ContinueOnError)
	username := fs.String("username", "", "username for the new user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("user-create: -username is required")
	}
	if err := a.navigate("createUser"); err != nil {
		return err
	}

	user, err := a.client.Users().Create(ctx, bankapi.CreateUserRequest{Username: *username})
	if err != nil {
		return err
	}
	fmt.Printf("created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func (a *app) getUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-get", flag.ContinueOnError)
	id := fs.Int("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("user-get: -id is required")
	}
	if err := a.navigate("users"); err != nil {
		return err
	}

	user, err := a.client.Users().Get(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (user %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) listAccounts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	user := fs.Int("user", 0, "owner user id (defaults to the logged-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.navigate("accounts"); err != nil {
		return err
	}
	userID, err := a.currentUserID(*user)
	if err != nil {
		return err
	}

	accounts, err := a.client.Accounts().List(ctx, userID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tBALANCE")
	for _, acct := range accounts {
		fmt.Fprintf(w, "%d\t%d\t%d\n", acct.ID, acct.UserID, acct.Balance)
	}
	return w.Flush()
}

func (a *app) createAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("account-create", flag.ContinueOnError)
	user := fs.Int("user", 0, "owner user id (defaults to the logged-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.navigate("createAccount"); err != nil {
		return err
	}
	userID, err := a.currentUserID(*user)
	if err != nil {
		return err
	}

	account, err := a.client.Accounts().Create(ctx, bankapi.CreateAccountRequest{UserID: userID})
	if err != nil {
		return err
	}
	fmt.Printf("created account %d for user %d\n", account.ID, account.UserID)
	return nil
}

func (a *app) deposit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	account := fs.Int("account", 0, "account id")
	amount := fs.Int("amount", 0, "amount to deposit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account <= 0 || *amount <= 0 {
		return fmt.Errorf("deposit: -account and -amount are required")
	}
	if err := a.navigate("deposit"); err != nil {
		return err
	}

	updated, err := a.client.Accounts().Deposit(ctx, bankapi.DepositRequest{
		AccountID: *account,
		Amount:    *amount,
	})
	if err != nil {
		return err
	}
	fmt.Printf("account %d balance: %d\n", updated.ID, updated.Balance)
	return nil
}

func (a *app) transfer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	from := fs.Int("from", 0, "source account id")
	to := fs.Int("to", 0, "destination account id")
	amount := fs.Int("amount", 0, "amount to transfer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from <= 0 || *to <= 0 || *amount <= 0 {
		return fmt.Errorf("transfer: -from, -to and -amount are required")
	}
	if err := a.navigate("transfer"); err != nil {
		return err
	}

	result, err := a.client.Accounts().Transfer(ctx, bankapi.TransferRequest{
		FromAccountID: *from,
		ToAccountID:   *to,
		Amount:        *amount,
	})
	if err != nil {
		return err
	}
	if result.Success {
		fmt.Printf("transferred %d from account %d to account %d\n", *amount, *from, *to)
	} else {
		fmt.Println("transfer not confirmed by server")
	}
	return nil
}

func (a *app) listAudits(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audits", flag.ContinueOnError)
	user := fs.Int("user", 0, "user id (defaults to the logged-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.navigate("audits"); err != nil {
		return err
	}
	userID, err := a.currentUserID(*user)
	if err != nil {
		return err
	}

	records, err := a.client.Audits().ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOPERATION\tUSER\tTIMESTAMP")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", rec.ID, rec.Operation, rec.UserID, rec.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
