/**
 * @description
 * One-shot Price Book refresh: loads the remote/local price table and
 * records a PriceRevision, without starting the log tailer or any domain
 * service. Adapted from the donor's manual market-sync entry point, which
 * served the same "refresh cached reference data on demand" role.
 *
 * @dependencies
 * - internal/config, internal/db, internal/pricebook
 */

package main

import (
	"github.com/oracle-observer/backend/internal/config"
	"github.com/oracle-observer/backend/internal/db"
	"github.com/oracle-observer/backend/internal/logger"
	"github.com/oracle-observer/backend/internal/pricebook"
)

func main() {
	log := logger.New("sync")
	log.Info("starting manual price book refresh")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("connecting to postgres: %v", err)
	}

	prices := pricebook.New(pgDB, cfg.PriceDB.RemoteURL, cfg.PriceDB.LocalJSONPath)
	if err := prices.Load(); err != nil {
		logger.Fatal("price book refresh failed: %v", err)
	}

	log.Info("price book refresh completed successfully")
}
