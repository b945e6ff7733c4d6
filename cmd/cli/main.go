package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/internal/config"
	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/core/quota"
	"github.com/sastra-some/duty-portal/pkg/core/selection"
	"github.com/sastra-some/duty-portal/pkg/core/services"
	"github.com/sastra-some/duty-portal/pkg/ledger"
	"github.com/sastra-some/duty-portal/pkg/postgres"
	"github.com/sastra-some/duty-portal/pkg/tabular"
	"github.com/sastra-some/duty-portal/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	data   *services.PortalData
	store  ledger.Store
	pg     *postgres.DB
	logger *zap.Logger
	ctx    context.Context
}

var (
	env        string
	configPath string
	username   string
	password   string
	adminPass  string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "duty-portal",
		Short: "End semester examination duty portal",
		Long:  `A CLI for collecting faculty exam-duty willingness, inspecting the duty pool, and reconciling willingness against the final allocation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.pg != nil {
					app.pg.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment name (used for log file naming)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: duty_portal_config.yaml in CWD or home)")
	rootCmd.PersistentFlags().StringVar(&username, "user", "", "Portal username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Portal password")
	rootCmd.PersistentFlags().StringVar(&adminPass, "admin-password", "", "Administrative password")

	rootCmd.AddCommand(poolCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(facultyCmd())
	rootCmd.AddCommand(willingnessCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, portal data, and the willingness store
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting duty portal", zap.String("environment", env))

	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.data, err = services.LoadPortalData(app.ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}

	switch app.cfg.Storage {
	case config.StoragePostgres:
		app.pg, err = postgres.NewDB(app.ctx, app.cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := app.pg.RunMigrations(app.ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.store = app.pg
	default:
		app.store = ledger.NewFileStore(app.cfg.WillingnessFile)
	}
	app.logger.Info("Willingness store ready", zap.String("backend", app.cfg.Storage))

	return nil
}

func requireLogin() error {
	if err := services.Authenticate(app.cfg, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

func requireAdmin() error {
	if err := services.AuthenticateAdmin(app.cfg, adminPass); err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}
	return nil
}

func poolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show the duty date pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("\nDuty Date Pool (%d slots):\n\n", len(app.data.Catalog))
			fmt.Printf("%-12s %-10s %-8s %-10s %s\n", "Date", "Day", "Session", "Mode", "Required")
			for _, slot := range app.data.Catalog {
				fmt.Printf("%-12s %-10s %-8s %-10s %d\n",
					model.FormatDate(slot.Date),
					slot.Date.Weekday(),
					slot.Session,
					slot.Mode,
					slot.RequiredCount,
				)
			}
			fmt.Println()
			return nil
		},
	}
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the duty structure per designation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roles := quota.Roles()
			sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

			fmt.Printf("\n%-12s %-8s %-12s %s\n", "Designation", "Picks", "Picks from", "Final allotment")
			for _, role := range roles {
				rule, _ := quota.Lookup(role)
				fmt.Printf("%-12s %-8d %-12s %s\n", role, rule.RequiredPicks, quota.SelectionMode(role), rule.AllotmentDescription)
			}
			fmt.Println()
			return nil
		},
	}
}

func facultyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faculty",
		Short: "List faculty members with their duty rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("\nFound %d faculty members:\n\n", len(app.data.Members))
			for _, m := range app.data.Members {
				rule, known := quota.Lookup(m.Role)
				ruleInfo := "no duty rule configured"
				if known {
					ruleInfo = fmt.Sprintf("%d picks, allotment: %s", rule.RequiredPicks, rule.AllotmentDescription)
				}
				blocked := ""
				if len(m.BlockedDates) > 0 {
					dates := make([]string, len(m.BlockedDates))
					for i, d := range m.BlockedDates {
						dates[i] = model.FormatDate(d)
					}
					blocked = fmt.Sprintf(" [blocked: %s]", strings.Join(dates, ", "))
				}
				fmt.Printf("- %s (%s) - %s%s\n", m.Name, m.Role, ruleInfo, blocked)
			}
			fmt.Println()
			return nil
		},
	}
}

func willingnessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "willingness <faculty name>",
		Short: "Start an interactive willingness selection session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			sel, err := services.BeginSelection(app.ctx, app.store, app.data, app.logger, args[0])
			if err != nil {
				return err
			}

			printSelectionHeader(sel)
			if sel.AlreadySubmitted {
				fmt.Println("This member's willingness is already on file; a second submission will be rejected.")
			}

			return runSelectionLoop(sel)
		},
	}
}

func printSelectionHeader(sel *services.SelectionContext) {
	member := sel.Session.Member()
	fmt.Printf("\nWillingness selection for %s\n", member.Name)
	fmt.Printf("Designation: %s\n", member.Role)
	if !sel.RuleKnown {
		fmt.Printf("WARNING: no duty rule is configured for designation %q; submission is disabled until the duty structure is fixed.\n", member.Role)
		return
	}
	fmt.Printf("Options required: %d\n", sel.Rule.RequiredPicks)
	fmt.Printf("Final allotment: %s\n", sel.Rule.AllotmentDescription)
	if member.Role == model.RoleAssociateProfessor {
		fmt.Println("Note: pick from the in-person pool; the final allotment spans both remote and in-person duty.")
	}
}

// runSelectionLoop drives the selection state machine from stdin
func runSelectionLoop(sel *services.SelectionContext) error {
	fmt.Println("\nCommands: eligible | list | pick <dd-mm-yyyy> <FN|AN> | unpick <dd-mm-yyyy> <FN|AN> | submit | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s %d/%d] > ", sel.Session.State(), len(sel.Session.Picks()), sel.Rule.RequiredPicks)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "quit", "exit":
			fmt.Println("Session discarded; nothing was saved.")
			return nil

		case "eligible":
			slots := sel.Session.EligibleSlots()
			fmt.Printf("%d eligible slots:\n", len(slots))
			for _, slot := range slots {
				fmt.Printf("  %s %s (%s, need %d)\n", model.FormatDate(slot.Date), slot.Session, slot.Date.Weekday(), slot.RequiredCount)
			}

		case "list":
			picks := sel.Session.Picks()
			fmt.Printf("Selected %d / %d:\n", len(picks), sel.Rule.RequiredPicks)
			for i, pick := range picks {
				fmt.Printf("  %d. %s\n", i+1, pick)
			}

		case "pick", "unpick":
			if len(parts) != 3 {
				fmt.Printf("Usage: %s <dd-mm-yyyy> <FN|AN>\n", parts[0])
				continue
			}
			date, err := tabular.ParseDayFirstDate(parts[1])
			if err != nil {
				fmt.Printf("Rejected: %v\n", err)
				continue
			}
			session := model.NormalizeSession(parts[2])
			if parts[0] == "pick" {
				err = sel.Session.Pick(date, session)
			} else {
				err = sel.Session.Unpick(date, session)
			}
			if err != nil {
				fmt.Printf("Rejected: %v\n", err)
				continue
			}
			if sel.Session.State() == selection.StateReady {
				fmt.Println("All required slots picked; type 'submit' to save.")
			}

		case "submit":
			count, err := services.SubmitWillingness(app.ctx, app.store, app.logger, sel.Session)
			if err != nil {
				fmt.Printf("Rejected: %v\n", err)
				continue
			}
			fmt.Printf("Willingness saved successfully (%d records). It cannot be submitted again.\n", count)
			return nil

		default:
			fmt.Printf("Unknown command %q\n", parts[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <faculty name>",
		Short: "Show a member's submission status and recorded willingness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			member, ok := app.data.Member(args[0])
			if !ok {
				return fmt.Errorf("faculty member %q not found in the directory", args[0])
			}

			records, err := services.ListWillingness(app.ctx, app.store, app.logger)
			if err != nil {
				return err
			}
			mine := ledger.RecordsFor(records, member.NormalizedName)

			if len(mine) == 0 {
				fmt.Printf("\n%s has not submitted willingness yet.\n", member.Name)
				return nil
			}

			fmt.Printf("\n%s has submitted %d willingness records:\n", member.Name, len(mine))
			for _, r := range mine {
				fmt.Printf("  %s %s\n", model.FormatDate(r.Date), r.Session)
			}
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <faculty name> <allocation file>",
		Short: "Report how much of a member's willingness the final allocation honored",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			result, err := services.ReportAccommodation(app.ctx, app.store, app.data, app.logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("\nAccommodation for %s: %s\n", args[0], result)
			return nil
		},
	}
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative ledger operations (password gated)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the full willingness ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(); err != nil {
				return err
			}

			records, err := services.ListWillingness(app.ctx, app.store, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nWillingness ledger (%d records):\n\n", len(records))
			sort.SliceStable(records, func(i, j int) bool {
				return model.NormalizeName(records[i].FacultyName) < model.NormalizeName(records[j].FacultyName)
			})
			for _, r := range records {
				fmt.Printf("%-30s %-12s %s\n", r.FacultyName, model.FormatDate(r.Date), r.Session)
			}
			return nil
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Wipe the willingness ledger (requires --confirm)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(); err != nil {
				return err
			}

			confirmed, _ := cmd.Flags().GetBool("confirm")
			count, err := services.ClearWillingness(app.ctx, app.store, app.logger, confirmed)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d willingness records.\n", count)
			return nil
		},
	}
	clearCmd.Flags().Bool("confirm", false, "Assert intent to destroy all willingness records")
	cmd.AddCommand(clearCmd)

	return cmd
}
