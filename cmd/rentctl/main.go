// Command rentctl is a terminal client for the RentExpress API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"rentexpress/internal/client"
	"rentexpress/internal/logger"

	"github.com/joho/godotenv"
)

const usage = `usage: rentctl [-api URL] [-state DIR] <command> [flags]

commands:
  session                        show who is logged in
  vehicles                       list available vehicles
  search [-brand] [-model] [-year] [-max-price]
  login -email E -password P
  register -username U -email E -password P -confirm P -name N [-phone T]
  logout
  select ID                      choose a vehicle to rent
  select -clear                  forget the chosen vehicle
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	global := flag.NewFlagSet("rentctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := global.String("api", envOr("RENTEXPRESS_API", "http://localhost:8080"), "API base URL")
	stateDir := global.String("state", envOr("RENTEXPRESS_STATE_DIR", client.DefaultStateDir()), "local state directory")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	log := logger.InitLogger(envOr("LOG_LEVEL", "warn"), true)

	api, err := client.New(*apiURL)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	ctrl := client.NewController(api, client.NewStateStore(*stateDir), log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	code := dispatch(ctx, ctrl, cmd, cmdArgs, stdout, stderr)
	client.RenderAlerts(stderr, ctrl.State.Alerts)
	return code
}

func dispatch(ctx context.Context, ctrl *client.Controller, cmd string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "session":
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		client.RenderNavigation(stdout, &ctrl.State)
		client.RenderSelection(stdout, &ctrl.State)
		return 0

	case "vehicles":
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		ctrl.LoadVehicles(ctx)
		client.RenderNavigation(stdout, &ctrl.State)
		fmt.Fprintln(stdout)
		client.RenderVehicles(stdout, &ctrl.State, ctrl.State.Vehicles)
		return 0

	case "search":
		var f client.Filters
		fs.StringVar(&f.Brand, "brand", "", "brand contains")
		fs.StringVar(&f.Model, "model", "", "model contains")
		fs.StringVar(&f.Year, "year", "", "exact year")
		fs.StringVar(&f.MaxPrice, "max-price", "", "maximum price per day")
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		ctrl.LoadVehicles(ctx)
		client.RenderVehicles(stdout, &ctrl.State, ctrl.Search(ctx, f))
		return 0

	case "login":
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		redirect, err := ctrl.Login(ctx, *email, *password)
		if err != nil {
			return 1
		}
		client.RenderNavigation(stdout, &ctrl.State)
		fmt.Fprintf(stdout, "next: %s\n", redirect)
		return 0

	case "register":
		var form client.RegisterForm
		fs.StringVar(&form.Username, "username", "", "username")
		fs.StringVar(&form.Email, "email", "", "email")
		fs.StringVar(&form.Password, "password", "", "password")
		fs.StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation")
		fs.StringVar(&form.Name, "name", "", "full name")
		fs.StringVar(&form.Phone, "phone", "", "phone (optional)")
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		redirect, err := ctrl.Register(ctx, form)
		if err != nil {
			return 1
		}
		client.RenderNavigation(stdout, &ctrl.State)
		fmt.Fprintf(stdout, "next: %s\n", redirect)
		return 0

	case "logout":
		if fs.Parse(args) != nil {
			return 2
		}
		ctrl.Load(ctx)
		// the local identity is gone either way
		_ = ctrl.Logout(ctx)
		client.RenderNavigation(stdout, &ctrl.State)
		return 0

	case "select":
		clearSel := fs.Bool("clear", false, "forget the chosen vehicle")
		if fs.Parse(args) != nil {
			return 2
		}
		if *clearSel {
			if fs.NArg() != 0 {
				fmt.Fprintln(stderr, "usage: rentctl select -clear")
				return 2
			}
			ctrl.Load(ctx)
			if ctrl.ClearSelection() != nil {
				return 1
			}
			return 0
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "usage: rentctl select ID | rentctl select -clear")
			return 2
		}
		id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "invalid vehicle id %q\n", fs.Arg(0))
			return 2
		}
		ctrl.Load(ctx)
		ctrl.LoadVehicles(ctx)
		if _, err := ctrl.Select(id); err != nil {
			return 1
		}
		client.RenderSelection(stdout, &ctrl.State)
		return 0

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
