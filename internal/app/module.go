package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/twofactor/internal/twofactor"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.twofactor.enabled") {
		slog.Warn("module twofactor is disabled, only /health is served")
		return
	}

	if err := twofactor.New(twofactor.Dependency{
		Ctx:        a.ctx,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Clock:      a.clock,
		Validator:  a.validator,
		Encryptor:  a.mfaEncryptor,
		Totp:       a.totp,
		QR:         a.qr,
		DBConn:     a.dbConn,
		CacheConn:  a.cacheConn,
	}); err != nil {
		slog.Error("failed to init module twofactor", "error", err)
		os.Exit(1)
	}
}
