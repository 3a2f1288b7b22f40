package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/config"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/client/services"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	taskService services.TaskService
	reader      *bufio.Reader

	// lastList backs task numbers typed by the user
	lastList []*models.Task
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.SessionPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	as := services.NewAuthService(apiClient, db)
	ts := services.NewTaskService(apiClient)

	return &App{config: c, db: db, authService: as, taskService: ts, reader: bufio.NewReader(os.Stdin)}, nil
}

// Run restores a saved session, reports server reachability and runs the
// REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	printlnFn("Welcome to tasktracker CLI (type 'help' for commands)")

	restored, err := a.authService.Restore(ctx)
	if err != nil {
		log.Printf("could not restore session: %s", err.Error())
	}
	if restored {
		printlnFn("Signed in as", a.authService.Email())
	}

	if err := a.authService.Ping(ctx); err != nil {
		printlnFn(fmt.Sprintf("Server %s is not reachable yet: %s", a.config.ServerURL, err.Error()))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.authService.Email() != ""
}

func (a *App) getStatus() string {
	if email := a.authService.Email(); email != "" {
		return fmt.Sprintf("(%s) ", email)
	}
	return ""
}
