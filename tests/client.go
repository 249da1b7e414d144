package testutil

import (
	"strconv"
	"testing"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/session"
	apisvc "github.com/17dpatra/studentassignmenttracker/services/api"
	logsvc "github.com/17dpatra/studentassignmenttracker/services/logger"
)

// NopLogger returns a logger that discards everything.
func NopLogger() core.Logger {
	return logsvc.NewNopLogger()
}

// NewClient returns an API client bound to api and a memory session store pre-filled with sess.
func NewClient(t *testing.T, api *FakeAPI, sess ...session.Session) (*apisvc.Client, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(sess...)
	return apisvc.NewClient(api.URL, store, NopLogger(), api.Client()), store
}

// LoggedIn registers uname on api and returns a client whose session holds a valid token for it.
func LoggedIn(t *testing.T, api *FakeAPI, uname string) (*apisvc.Client, session.Store) {
	t.Helper()
	api.AddUser(t, uname, "secret")
	return NewClient(t, api, session.Session{Token: api.Token(t, uname), Username: uname})
}

// ID converts a FakeAPI primary key to the id the clients use.
func ID(pk int64) core.ID {
	return core.ID(strconv.FormatInt(pk, 10))
}

// PK is the inverse of ID, for seeding rows that point at an id the clients hold.
func PK(id core.ID) int64 {
	pk, _ := strconv.ParseInt(string(id), 10, 64)
	return pk
}
