package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/harendra-pratap/Survey-form/config"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
