package main

import (
	"github.com/creatorx-lab/settlement/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	return migration.Migrate(s.ctx)
}
