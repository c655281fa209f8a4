package web

import (
	"net/http"

	"github.com/dmitrijs2005/usersapp/internal/server/models"
)

type userForm struct {
	Name  string
	Email string
}

func parseUserForm(r *http.Request) userForm {
	name, email := models.NormalizeInput(r.PostFormValue("name"), r.PostFormValue("email"))
	return userForm{Name: name, Email: email}
}

func (f userForm) validate() models.ValidationErrors {
	return models.ValidateUserInput(f.Name, f.Email)
}

type formPage struct {
	ID     string
	Form   userForm
	Errors models.ValidationErrors
}
