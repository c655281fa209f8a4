package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/filex"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
	"github.com/google/uuid"
)

// newID is a seam for tests.
var newID = uuid.NewString

func formatUser(u models.User) string {
	return fmt.Sprintf("%s  %-24s %s", u.ID, u.Name, u.Email)
}

func validationError(errs models.ValidationErrors) error {
	if msg, ok := errs["name"]; ok {
		return fmt.Errorf("invalid input: %s", msg)
	}
	return fmt.Errorf("invalid input: %s", errs["email"])
}

func (a *App) List(ctx context.Context, term string) error {
	return a.withRepo(ctx, func(repo users.Repository) error {
		list, err := repo.All(ctx, term)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			printlnFn("No users found.")
			return nil
		}
		for _, u := range list {
			printlnFn(formatUser(u))
		}
		return nil
	})
}

func (a *App) Show(ctx context.Context, id string) error {
	return a.withRepo(ctx, func(repo users.Repository) error {
		u, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s: %w", id, common.ErrorNotFound)
		}
		printlnFn("ID:   ", u.ID)
		printlnFn("Name: ", u.Name)
		printlnFn("Email:", u.Email)
		return nil
	})
}

func (a *App) Add(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	name, email = models.NormalizeInput(name, email)
	if errs := models.ValidateUserInput(name, email); len(errs) > 0 {
		return validationError(errs)
	}

	u := models.User{ID: newID(), Name: name, Email: email}
	return a.withRepo(ctx, func(repo users.Repository) error {
		if err := repo.Add(ctx, u); err != nil {
			return err
		}
		printlnFn("Created", u.ID)
		return nil
	})
}

// Edit prompts for both fields; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, id string) error {
	return a.withRepo(ctx, func(repo users.Repository) error {
		u, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s: %w", id, common.ErrorNotFound)
		}

		name, err := GetSimpleText(a.reader, fmt.Sprintf("Name [%s]", u.Name), a.out)
		if err != nil {
			return err
		}
		email, err := GetSimpleText(a.reader, fmt.Sprintf("Email [%s]", u.Email), a.out)
		if err != nil {
			return err
		}

		var patch models.UserPatch
		if name != "" && name != u.Name {
			patch.Name = &name
		}
		if email != "" && email != u.Email {
			patch.Email = &email
		}
		if patch.Empty() {
			printlnFn("Nothing to change")
			return nil
		}

		updated := *u
		patch.Apply(&updated)
		if errs := models.ValidateUserInput(updated.Name, updated.Email); len(errs) > 0 {
			return validationError(errs)
		}

		if err := repo.Update(ctx, id, patch); err != nil {
			return err
		}
		printlnFn("Updated", id)
		return nil
	})
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.withRepo(ctx, func(repo users.Repository) error {
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		printlnFn("Deleted", id)
		return nil
	})
}

// Import reads a JSON array of users. Entries without an id get a new one;
// every entry must pass the same checks as the web form.
func (a *App) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var batch []models.User
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range batch {
		batch[i].Name, batch[i].Email = models.NormalizeInput(batch[i].Name, batch[i].Email)
		if errs := models.ValidateUserInput(batch[i].Name, batch[i].Email); len(errs) > 0 {
			return fmt.Errorf("entry %d: %w", i, validationError(errs))
		}
		if batch[i].ID == "" {
			batch[i].ID = newID()
		}
	}

	return a.withRepo(ctx, func(repo users.Repository) error {
		if err := repo.Import(ctx, batch); err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Imported %d users", len(batch)))
		return nil
	})
}

func (a *App) Export(ctx context.Context, path string) error {
	return a.withRepo(ctx, func(repo users.Repository) error {
		list, err := repo.All(ctx, "")
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		if err := filex.ReplaceFile(path, append(data, '\n'), 0o600); err != nil {
			return err
		}

		printlnFn(fmt.Sprintf("Exported %d users to %s", len(list), path))
		return nil
	})
}
