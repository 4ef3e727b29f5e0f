package cli

import (
	"fmt"
	"strconv"

	"cafeplanner/internal/planner"

	"github.com/spf13/cobra"
)

// Execute runs the planctl command tree.
func Execute() error {
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Cafe visit planner",
		Long:          "planctl manages your cafe visit plans locally and keeps them synced with the cafeplanner server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		listCmd(),
		createCmd(),
		addCmd(),
		toggleCmd(),
		doneCmd(),
		rmCmd(),
		moveCmd(),
		setCmd(),
		activityCmd(),
		syncCmd(),
		statusCmd(),
	)

	return root.Execute()
}

func registerCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.client.Register(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			a.cfg.Account = user.Email
			if err := saveConfig(a.cfgDir, a.cfg); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the cafeplanner server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.cfg.Account = user.Email
			if err := saveConfig(a.cfgDir, a.cfg); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.Logout(cmd.Context()); err != nil && !planner.IsUnauthorized(err) {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			fmt.Print(renderPlans(a.planner.Plans()))
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var cafeID int64
	var cafeName string
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}

			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			var cafe *int64
			if cmd.Flags().Changed("cafe") {
				cafe = &cafeID
			}

			plan := a.planner.CreatePlan(title, cafe, cafeName)
			fmt.Printf("created %q (%s)\n", plan.Title, shortID(plan.ID))
			return a.finish(cmd.Context())
		},
	}
	cmd.Flags().Int64Var(&cafeID, "cafe", 0, "cafe id")
	cmd.Flags().StringVar(&cafeName, "cafe-name", "", "cafe name (local only)")
	return cmd
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <plan> <text>",
		Short: "Add a checklist item to a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}
			item, err := a.planner.AddItem(plan.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("added %q (%s)\n", item.Text, shortID(item.ID))
			return a.finish(cmd.Context())
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <plan> <item>",
		Short: "Toggle an item's done flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}
			item, err := a.matchItem(plan, args[1])
			if err != nil {
				return err
			}
			if err := a.planner.ToggleItem(plan.ID, item.ID); err != nil {
				return err
			}
			return a.finish(cmd.Context())
		},
	}
}

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <plan>",
		Short: "Mark every item of a plan done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}
			if err := a.planner.CompletePlan(plan.ID); err != nil {
				return err
			}
			fmt.Printf("completed %q 🎉\n", plan.Title)
			return a.finish(cmd.Context())
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <plan>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}
			if err := a.planner.RemovePlan(plan.ID); err != nil {
				return err
			}
			fmt.Printf("removed %q\n", plan.Title)
			return a.finish(cmd.Context())
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <plan> <from> <to>",
		Short: "Reorder an item within a plan",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("from must be an index: %w", err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("to must be an index: %w", err)
			}
			if err := a.planner.ReorderItem(plan.ID, from, to); err != nil {
				return err
			}
			return a.finish(cmd.Context())
		},
	}
}

func setCmd() *cobra.Command {
	var title, date, timeText string
	cmd := &cobra.Command{
		Use:   "set <plan>",
		Short: "Edit a plan's title, date, or time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.matchPlan(args[0])
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("title") {
				if err := a.planner.EditMeta(plan.ID, planner.MetaTitle, title); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("date") {
				if err := a.planner.EditMeta(plan.ID, planner.MetaDate, date); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("time") {
				if err := a.planner.EditMeta(plan.ID, planner.MetaTime, timeText); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to change; pass --title, --date, or --time")
			}
			return a.finish(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&date, "date", "", "visit date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&timeText, "time", "", "free-text time label (empty clears)")
	return cmd
}

func activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show the recent activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			fmt.Print(renderActivities(a.planner.Activities()))
			return nil
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the local snapshot to the server now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			if !a.planner.Authenticated() {
				return fmt.Errorf("not signed in; run planctl login")
			}
			if err := a.syncer.Flush(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(renderState(a.planner.State()))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account and sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.Context()); err != nil {
				return err
			}
			account := a.cfg.Account
			if account == "" {
				account = "(not signed in)"
			}
			fmt.Printf("server:  %s\n", a.cfg.ServerURL)
			fmt.Printf("account: %s\n", account)
			fmt.Printf("plans:   %d\n", len(a.planner.Plans()))
			fmt.Printf("state:   %s\n", renderState(a.planner.State()))
			return nil
		},
	}
}
