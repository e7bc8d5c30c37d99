// Command manage runs administrative tasks against the planning database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/yukikurage/resource-planning-api/internal/config"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/database"
	"github.com/yukikurage/resource-planning-api/internal/logging"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"github.com/yukikurage/resource-planning-api/internal/services"
	"gorm.io/gorm"
)

const usage = `usage: manage <command> [flags]

commands:
  migrate        create or update tables and indexes
  create-admin   create a platform admin (--email, --name)
  create-org     create an organization with its superuser
                 (--name, --superuser-email, --superuser-name, --max-users, --tier)
  list-orgs      list organizations and their superusers
  list-admins    list platform admins
`

var errUsage = errors.New("invalid usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}
	logger := logging.Setup("warn", true)

	if err := database.Connect(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(os.Args[1:], database.GetDB(), os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, db *gorm.DB, out io.Writer, logger zerolog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	orgs := services.NewOrganizationService(
		repository.NewOrganizationRepository(db),
		repository.NewUserRepository(db),
	)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		return database.MigrateDatabase(db, logger)
	case "create-admin":
		return createAdmin(rest, orgs, out)
	case "create-org":
		return createOrg(rest, orgs, out)
	case "list-orgs":
		return listOrgs(orgs, out)
	case "list-admins":
		return listAdmins(orgs, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func createAdmin(args []string, orgs *services.OrganizationService, out io.Writer) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "platform admin email")
	name := fs.String("name", "", "platform admin name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	admin, err := orgs.CreatePlatformAdmin(*email, *name)
	if err != nil {
		return fmt.Errorf("create platform admin: %w", err)
	}
	fmt.Fprintf(out, "Platform admin created with ID %d\n", admin.ID)
	return nil
}

func createOrg(args []string, orgs *services.OrganizationService, out io.Writer) error {
	fs := flag.NewFlagSet("create-org", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "organization name")
	email := fs.String("superuser-email", "", "superuser email")
	suName := fs.String("superuser-name", "", "superuser name")
	maxUsers := fs.Int("max-users", constants.DefaultOrgMaxUsers, "maximum number of users")
	tier := fs.String("tier", "free", "subscription tier")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	org, _, err := orgs.CreateOrganization(services.CreateOrganizationInput{
		Name:             *name,
		SubscriptionTier: *tier,
		MaxUsers:         *maxUsers,
		SuperuserEmail:   *email,
		SuperuserName:    *suName,
	})
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	fmt.Fprintf(out, "Organization created with ID %d\n", org.ID)
	return nil
}

func listOrgs(orgs *services.OrganizationService, out io.Writer) error {
	list, err := orgs.ListOrganizations()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No organizations found.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "Name", "Tier", "Max Users", "Superuser", "Email")
	for _, org := range list {
		if err := table.Append(
			fmt.Sprint(org.ID),
			org.Name,
			org.SubscriptionTier,
			fmt.Sprint(org.MaxUsers),
			org.Superuser.Name,
			org.Superuser.Email,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func listAdmins(orgs *services.OrganizationService, out io.Writer) error {
	admins, err := orgs.ListPlatformAdmins()
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		fmt.Fprintln(out, "No platform admins found.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "Name", "Email")
	for _, admin := range admins {
		if err := table.Append(fmt.Sprint(admin.ID), admin.Name, admin.Email); err != nil {
			return err
		}
	}
	return table.Render()
}
