package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect abre a conexão com o banco e devolve o handle que os handlers
// recebem por injeção. Por padrão usa um arquivo SQLite local; um DSN em
// DATABASE_DSN troca o driver para Postgres.
func Connect(dsn, sqlitePath string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}
	if dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	// _foreign_keys=1: o SQLite não aplica as FKs sem o pragma
	return gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=1", sqlitePath)), cfg)
}

// Close libera o pool de conexões no encerramento do processo.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
