package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/avelis/taskhub/internal/config"
	"github.com/avelis/taskhub/internal/project"
	"github.com/avelis/taskhub/internal/tag"
	"github.com/avelis/taskhub/internal/task"
	"github.com/avelis/taskhub/internal/team"
	"github.com/avelis/taskhub/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo users, teams, projects and tasks",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var demoUsers = []user.CreateUserInput{
	{Name: "Ada Lovell", Email: "ada@example.com", Password: "demo-password"},
	{Name: "Grace Hoppner", Email: "grace@example.com", Password: "demo-password"},
	{Name: "Alan Turner", Email: "alan@example.com", Password: "demo-password"},
}

var demoProjects = []project.CreateProjectInput{
	{Name: "Website Relaunch", Description: "New marketing site with CMS migration."},
	{Name: "Mobile App", Description: "iOS and Android client for the core product."},
}

type demoTask struct {
	name           string
	projectIdx     int
	ownerIdx       int
	tags           string
	timeToComplete int
	status         string
}

var demoTasks = []demoTask{
	{"Design landing page", 0, 0, "design, frontend", 3, task.StatusPending},
	{"Set up CI pipeline", 0, 1, "infra", 2, task.StatusCompleted},
	{"Write API client", 1, 2, "backend, api", 5, task.StatusPending},
	{"App store screenshots", 1, 0, "design", 1, task.StatusPending},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool)
	teamStore := team.NewStore(pool)
	projectStore := project.NewStore(pool)
	tagStore := tag.NewStore(pool)
	taskStore := task.NewStore(pool)

	resolver := tag.NewResolver(tagStore, nil)
	writer := task.NewWriter(taskStore, resolver)

	users := make([]*user.User, 0, len(demoUsers))
	for _, in := range demoUsers {
		u, err := userStore.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", in.Email, err)
		}
		users = append(users, u)
		slog.Info("seeded user", "email", u.Email)
	}

	memberIDs := make([]string, len(users))
	for i, u := range users {
		memberIDs[i] = u.ID
	}
	t, err := teamStore.Create(ctx, team.CreateTeamInput{
		Name:        "Core Team",
		Description: "Everyone on the demo install.",
		MemberIDs:   memberIDs,
	})
	if err != nil {
		return fmt.Errorf("seeding team: %w", err)
	}
	slog.Info("seeded team", "name", t.Name, "members", len(t.MemberIDs))

	projects := make([]*project.Project, 0, len(demoProjects))
	for _, in := range demoProjects {
		p, err := projectStore.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seeding project %s: %w", in.Name, err)
		}
		projects = append(projects, p)
		slog.Info("seeded project", "name", p.Name)
	}

	for _, dt := range demoTasks {
		created, err := writer.Create(ctx, task.CreateTaskInput{
			Name:           dt.name,
			ProjectID:      &projects[dt.projectIdx].ID,
			TeamID:         &t.ID,
			OwnerIDs:       []string{users[dt.ownerIdx].ID},
			Tags:           dt.tags,
			TimeToComplete: dt.timeToComplete,
			Status:         dt.status,
		})
		if err != nil {
			return fmt.Errorf("seeding task %s: %w", dt.name, err)
		}
		slog.Info("seeded task", "name", created.Name, "tags", len(created.TagIDs))
	}

	slog.Info("seed complete")
	return nil
}
