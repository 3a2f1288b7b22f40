package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/services"
)

var errSessionExpired = errors.New("session expired, please log in again")

func (a *App) List(ctx context.Context, args []string) error {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	f, err := services.ParseFilter(filter)
	if err != nil {
		return err
	}

	items, err := a.taskService.List(ctx, f)
	if err != nil {
		return a.taskErr(ctx, err)
	}

	a.lastList = items

	if len(items) == 0 {
		printlnFn("No tasks.")
		return nil
	}
	for n, item := range items {
		printlnFn(fmt.Sprintf("%2d. %s", n+1, item))
	}
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = getSimpleText(a.reader, "Enter task text", os.Stdout); err != nil {
			return err
		}
	}

	task, err := a.taskService.Add(ctx, text)
	if err != nil {
		return a.taskErr(ctx, err)
	}

	printlnFn("Added:", task)
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, true)
}

func (a *App) Undo(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, false)
}

func (a *App) setCompleted(ctx context.Context, args []string, completed bool) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	task, err := a.taskService.SetCompleted(ctx, id, completed)
	if err != nil {
		return a.taskErr(ctx, err)
	}

	a.replaceInList(task.ID, func(n int) { a.lastList[n] = task })
	printlnFn("Updated:", task)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	if text == "" {
		if text, err = getSimpleText(a.reader, "Enter new text", os.Stdout); err != nil {
			return err
		}
	}

	task, err := a.taskService.Rename(ctx, id, text)
	if err != nil {
		return a.taskErr(ctx, err)
	}

	a.replaceInList(task.ID, func(n int) { a.lastList[n] = task })
	printlnFn("Updated:", task)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	if err := a.taskService.Delete(ctx, id); err != nil {
		return a.taskErr(ctx, err)
	}

	// numbering would shift; make the user list again
	a.lastList = nil
	printlnFn("Deleted.")
	return nil
}

// resolveID maps the first argument to a task id: a number refers to the
// last listing, anything else is taken as an id.
func (a *App) resolveID(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errors.New("task number or id required")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return args[0], nil
	}
	if n < 1 || n > len(a.lastList) {
		return "", fmt.Errorf("no task #%d in the last list, run 'list' first", n)
	}
	return a.lastList[n-1].ID, nil
}

func (a *App) replaceInList(id string, fn func(n int)) {
	for n, item := range a.lastList {
		if item.ID == id {
			fn(n)
			return
		}
	}
}

// taskErr drops the saved session when the server no longer accepts the
// token, so the prompt reflects that the user is signed out.
func (a *App) taskErr(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.lastList = nil
		if lerr := a.authService.Logout(ctx); lerr != nil {
			return errors.Join(errSessionExpired, fmt.Errorf("could not clear saved session: %w", lerr))
		}
		return errSessionExpired
	}
	return err
}
