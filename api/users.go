package api

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) error {
	var input createUserRequest
	if err := decodeBody(r, &input); err != nil {
		return err
	}

	user, err := a.Store.CreateUser(input.Name, input.Username)
	if err != nil {
		return err
	}

	a.Logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user created")
	writeJSON(w, http.StatusCreated, user)
	return nil
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := a.userByID(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, user)
	return nil
}

func (a *API) UpgradeUser(w http.ResponseWriter, r *http.Request) error {
	user, err := a.userByID(r)
	if err != nil {
		return err
	}

	user, err = a.Store.UpgradeToPro(user.ID)
	if err != nil {
		return err
	}

	a.Logger.WithField("user_id", user.ID).Info("user upgraded to pro")
	writeJSON(w, http.StatusOK, user)
	return nil
}
